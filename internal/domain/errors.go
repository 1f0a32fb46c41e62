package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrNoInstanceFound       = errors.New("no invitation enrolment instance for course")
	ErrTokenGenerationFailed = errors.New("could not generate a unique invitation token")
	ErrDuplicateToken        = errors.New("invitation token already exists")
	ErrDeliveryFailed        = errors.New("invitation email delivery failed")
	ErrInvitationUsed        = errors.New("invitation has already been used")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrUserNotFound          = errors.New("user not found")
)
