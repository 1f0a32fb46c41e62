package domain

import (
	"context"
	"time"
)

// AuditEventName identifies a lifecycle transition.
type AuditEventName string

const (
	EventInvitationSent     AuditEventName = "invitation_sent"
	EventInvitationUpdated  AuditEventName = "invitation_updated"
	EventInvitationAccepted AuditEventName = "invitation_accepted"
	EventInvitationRejected AuditEventName = "invitation_rejected"
	EventInvitationDeleted  AuditEventName = "invitation_deleted"
	EventInvitationViewed   AuditEventName = "invitation_viewed"
)

// AuditEvent is one structured, human-readable audit entry.
type AuditEvent struct {
	ID           string            `json:"id"`
	Name         AuditEventName    `json:"name"`
	ActorID      string            `json:"actor_id"`
	CourseID     string            `json:"course_id"`
	InvitationID string            `json:"invitation_id,omitempty"`
	Email        string            `json:"email"`
	Description  string            `json:"description"`
	URL          string            `json:"url"`
	Other        map[string]string `json:"other,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// AuditLog persists audit events.
type AuditLog interface {
	Emit(ctx context.Context, event *AuditEvent) error
}

// EventRecorder wraps lifecycle transitions into audit events.
type EventRecorder interface {
	InvitationSent(ctx context.Context, rc RequestContext, inv *Invitation) error
	InvitationUpdated(ctx context.Context, rc RequestContext, inv *Invitation) error
	InvitationAccepted(ctx context.Context, rc RequestContext, inv *Invitation) error
	InvitationRejected(ctx context.Context, rc RequestContext, inv *Invitation) error
	InvitationDeleted(ctx context.Context, rc RequestContext, inv *Invitation, display DeletedDisplay) error
	InvitationViewed(ctx context.Context, rc RequestContext, inv *Invitation) error
}

// DeletedDisplay holds the contextual fields rendered into a deletion description.
type DeletedDisplay struct {
	StatusLabel string
	RoleName    string
	Expiration  string
}

// Translator looks up locale-aware strings by key, formatting args into the message.
type Translator interface {
	T(key string, args ...any) string
}
