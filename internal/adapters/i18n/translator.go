// Package i18n holds the user-facing string catalog for invitations.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"enrolinvitation/internal/domain"
)

// Message keys.
const (
	KeyStatusActive   = "status_invite_active"
	KeyStatusExpired  = "status_invite_expired"
	KeyStatusUsed     = "status_invite_used"
	KeyStatusInvalid  = "status_invite_invalid"
	KeyStatusRevoked  = "status_invite_revoked"
	KeyStatusResent   = "status_invite_resent"
	KeyReminderPrefix = "reminder_prefix"

	KeyUserNoAccess    = "status_invite_used_noaccess"
	KeyUserAccessEnds  = "status_invite_used_expiration"
	KeyInviterAccepted = "email_invitee_accepted_subject"
	KeyInviterRejected = "email_invitee_rejected_subject"

	KeyEventSent     = "event_invitation_sent"
	KeyEventUpdated  = "event_invitation_updated"
	KeyEventAccepted = "event_invitation_accepted"
	KeyEventRejected = "event_invitation_rejected"
	KeyEventDeleted  = "event_invitation_deleted"
	KeyEventViewed   = "event_invitation_viewed"
)

var english = map[string]string{
	KeyStatusActive:   "Active",
	KeyStatusExpired:  "Expired",
	KeyStatusUsed:     "Accepted",
	KeyStatusInvalid:  "Invalid",
	KeyStatusRevoked:  "Revoked",
	KeyStatusResent:   "Resent",
	KeyReminderPrefix: "Reminder: ",

	KeyUserNoAccess:    "User no longer has access",
	KeyUserAccessEnds:  "Access ends on %s",
	KeyInviterAccepted: "Invitation to %s accepted",
	KeyInviterRejected: "Invitation to %s declined",

	KeyEventSent:     "The user with id '%s' sent an invitation to '%s' for the course with id '%s'.",
	KeyEventUpdated:  "The user with id '%s' resent the invitation to '%s' for the course with id '%s'.",
	KeyEventAccepted: "The user with id '%s' accepted the invitation sent to '%s' for the course with id '%s'.",
	KeyEventRejected: "The user with id '%s' rejected the invitation sent to '%s' for the course with id '%s'.",
	KeyEventDeleted:  "The user with id '%s' deleted the invitation to '%s' for the course with id '%s' (status: %s, role: %s, expiration: %s).",
	KeyEventViewed:   "The user with id '%s' viewed the invitation sent to '%s' for the course with id '%s'.",
}

func init() {
	for key, msg := range english {
		_ = message.SetString(language.English, key, msg)
	}
}

type translator struct {
	printer *message.Printer
}

// NewTranslator returns a Translator for the given locale (BCP 47), falling back to English.
func NewTranslator(locale string) domain.Translator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	matcher := language.NewMatcher(message.DefaultCatalog.Languages())
	matched, _, _ := matcher.Match(tag)
	return &translator{printer: message.NewPrinter(matched)}
}

func (t *translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// StatusKey maps a derived status to its label key.
func StatusKey(s domain.InvitationStatus) string {
	switch s {
	case domain.StatusActive:
		return KeyStatusActive
	case domain.StatusExpired:
		return KeyStatusExpired
	case domain.StatusUsed:
		return KeyStatusUsed
	default:
		return KeyStatusInvalid
	}
}
