package domain

import (
	"context"
	"time"
)

// InvitationStatus is the derived state of an invitation at a point in time.
type InvitationStatus string

const (
	StatusInvalid InvitationStatus = "invalid"
	StatusActive  InvitationStatus = "active"
	StatusUsed    InvitationStatus = "used"
	StatusExpired InvitationStatus = "expired"
)

// Invitation is one email invitation to join a course with a role.
// swagger:model Invitation
type Invitation struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"course_id"`
	Email          string     `json:"email"`
	Token          string     `json:"-"`
	TokenUsed      bool       `json:"token_used"`
	RoleID         string     `json:"role_id"`
	InviterID      string     `json:"inviter_id"`
	TimeSent       time.Time  `json:"time_sent"`
	TimeExpiration time.Time  `json:"time_expiration"`
	Subject        string     `json:"subject"`
	Message        string     `json:"message"`
	NotifyInviter  bool       `json:"notify_inviter"`
	ShowFromEmail  bool       `json:"show_from_email"`
	DaysExpire     *int       `json:"days_expire,omitempty"`
	UserID         *string    `json:"user_id,omitempty"`
	TimeUsed       *time.Time `json:"time_used,omitempty"`
}

// InvitationStatusAt derives the status from tokenUsed, timeExpiration and now.
// A nil invitation, or one without id/token, is Invalid.
func InvitationStatusAt(inv *Invitation, now time.Time) InvitationStatus {
	if inv == nil || inv.ID == "" || inv.Token == "" {
		return StatusInvalid
	}
	if inv.TokenUsed {
		return StatusUsed
	}
	if inv.TimeExpiration.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// SendInvitationInput carries the form data for sending or resending an invitation.
// Token is required only for a resend. A resend keeps the stored role, inviter and
// daysExpire, so RoleID and DaysExpire are ignored there.
type SendInvitationInput struct {
	CourseID      string
	Email         string
	RoleID        string
	Subject       string
	Message       string
	NotifyInviter bool
	ShowFromEmail bool
	DaysExpire    *int
	Token         string
}

// UsageInfo describes who redeemed an invitation.
// swagger:model UsageInfo
type UsageInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Roles    string `json:"roles"`
	TimeUsed string `json:"time_used"`
}

// InvitationView is an invitation with its derived display fields for the history page.
// swagger:model InvitationView
type InvitationView struct {
	Invitation       *Invitation      `json:"invitation"`
	Status           InvitationStatus `json:"status"`
	StatusLabel      string           `json:"status_label"`
	UsedBy           *UsageInfo       `json:"used_by,omitempty"`
	AccessExpiration string           `json:"access_expiration,omitempty"`
}

// InvitationLanding is what a recipient sees when following an invitation link.
// swagger:model InvitationLanding
type InvitationLanding struct {
	Invitation  *Invitation      `json:"invitation"`
	Course      *Course          `json:"course"`
	Status      InvitationStatus `json:"status"`
	RoleName    string           `json:"role_name"`
	InviterName string           `json:"inviter_name"`
}

// RequestContext is the explicit per-request context threaded through manager calls.
type RequestContext struct {
	ActorID  string
	CourseID string
	Now      time.Time
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	ListByCourseID(ctx context.Context, courseID string) ([]*Invitation, error)
	UpdateForResend(ctx context.Context, inv *Invitation) error
	// Redeem marks the invitation used by e.UserID at e.TimeStart and applies the
	// enrolment atomically. ErrInvitationUsed if it was already redeemed.
	Redeem(ctx context.Context, id string, e *Enrolment) error
	Delete(ctx context.Context, id string) error
}

// TokenGenerator draws fresh opaque invitation tokens.
type TokenGenerator interface {
	NewToken() (string, error)
}

// InvitationManager owns the lifecycle of invitation records.
type InvitationManager interface {
	SendInvitation(ctx context.Context, rc RequestContext, data *SendInvitationInput, resend bool) error
	InviteStatus(inv *Invitation, now time.Time) InvitationStatus
	AccessExpiration(ctx context.Context, inv *Invitation) (string, error)
	EnrolUser(ctx context.Context, rc RequestContext, inv *Invitation) error
	WhoUsedInvite(ctx context.Context, inv *Invitation) (*UsageInfo, error)
	Invites(ctx context.Context, rc RequestContext, courseID string) ([]*Invitation, error)
	GetInvitation(ctx context.Context, rc RequestContext, invitationID string) (*Invitation, error)
	ListInvitations(ctx context.Context, rc RequestContext, courseID string) ([]*InvitationView, error)
	ViewInvitation(ctx context.Context, rc RequestContext, token string) (*InvitationLanding, error)
	AcceptInvitation(ctx context.Context, rc RequestContext, token string) (*Invitation, error)
	RejectInvitation(ctx context.Context, rc RequestContext, token string) error
	RevokeInvitation(ctx context.Context, rc RequestContext, invitationID string) error
}
