package domain

import (
	"context"
	"time"
)

// Course is a course that people can be invited to.
// swagger:model Course
type Course struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	ShortName string    `json:"short_name"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseRepository defines read access to courses.
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*Course, error)
}

// PrivacyNoticeProvider returns an optional course privacy notice for invitation emails.
// ok is false when the course has no notice.
type PrivacyNoticeProvider interface {
	PrivacyNotice(ctx context.Context, courseID string) (notice string, ok bool, err error)
}
