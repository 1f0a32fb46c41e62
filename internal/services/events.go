package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"enrolinvitation/internal/adapters/i18n"
	"enrolinvitation/internal/domain"
)

type eventRecorder struct {
	audit      domain.AuditLog
	translator domain.Translator
	siteURL    string
	newID      func() string
}

// NewEventRecorder returns an EventRecorder that renders descriptions with the translator
// and hands each event to the audit log.
func NewEventRecorder(audit domain.AuditLog, translator domain.Translator, siteURL string) domain.EventRecorder {
	return &eventRecorder{
		audit:      audit,
		translator: translator,
		siteURL:    strings.TrimRight(siteURL, "/"),
		newID:      uuid.NewString,
	}
}

func (r *eventRecorder) InvitationSent(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation) error {
	return r.record(ctx, rc, inv, domain.EventInvitationSent, i18n.KeyEventSent, nil)
}

func (r *eventRecorder) InvitationUpdated(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation) error {
	return r.record(ctx, rc, inv, domain.EventInvitationUpdated, i18n.KeyEventUpdated, nil)
}

func (r *eventRecorder) InvitationAccepted(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation) error {
	return r.record(ctx, rc, inv, domain.EventInvitationAccepted, i18n.KeyEventAccepted, nil)
}

func (r *eventRecorder) InvitationRejected(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation) error {
	return r.record(ctx, rc, inv, domain.EventInvitationRejected, i18n.KeyEventRejected, nil)
}

func (r *eventRecorder) InvitationViewed(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation) error {
	return r.record(ctx, rc, inv, domain.EventInvitationViewed, i18n.KeyEventViewed, nil)
}

// InvitationDeleted also renders the status, role and expiration the row had when it was removed.
func (r *eventRecorder) InvitationDeleted(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation, display domain.DeletedDisplay) error {
	other := map[string]string{
		"status":     display.StatusLabel,
		"role":       display.RoleName,
		"expiration": display.Expiration,
	}
	return r.record(ctx, rc, inv, domain.EventInvitationDeleted, i18n.KeyEventDeleted, other,
		display.StatusLabel, display.RoleName, display.Expiration)
}

func (r *eventRecorder) record(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation, name domain.AuditEventName, key string, other map[string]string, extra ...any) error {
	courseID := inv.CourseID
	if courseID == "" {
		courseID = rc.CourseID
	}
	at := rc.Now
	if at.IsZero() {
		at = time.Now()
	}
	args := append([]any{rc.ActorID, inv.Email, courseID}, extra...)
	event := &domain.AuditEvent{
		ID:           r.newID(),
		Name:         name,
		ActorID:      rc.ActorID,
		CourseID:     courseID,
		InvitationID: inv.ID,
		Email:        inv.Email,
		Description:  r.translator.T(key, args...),
		URL:          r.siteURL + "/courses/" + courseID + "/invitations",
		Other:        other,
		CreatedAt:    at,
	}
	return r.audit.Emit(ctx, event)
}
