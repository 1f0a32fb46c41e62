package domain

import (
	"context"
	"strings"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns "First Last", falling back to the email when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Role represents a course role (e.g. student, editingteacher). Name may contain markup.
type Role struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// UserRepository defines read access to users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RoleRepository defines read access to roles and course role assignments.
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*Role, error)
	ListByUserInCourse(ctx context.Context, userID, courseID string) ([]*Role, error)
}

// CapabilityEnrol allows sending, resending, revoking and listing invitations in a course.
const CapabilityEnrol = "enrol/invitation:enrol"

// CapabilityChecker answers permission questions for a user in a course.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, userID, capability, courseID string) (bool, error)
}

// TokenIssuer issues bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// AccessTokenService issues bearer tokens for existing users.
type AccessTokenService interface {
	IssueToken(ctx context.Context, userID string) (string, error)
}
