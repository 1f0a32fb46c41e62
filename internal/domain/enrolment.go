package domain

import (
	"context"
	"time"
)

// EnrolInstance is the invitation enrolment method configured on a course.
type EnrolInstance struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Enabled  bool   `json:"enabled"`
}

// Enrolment is a user's enrolment through an instance. A zero TimeEnd means unrestricted access.
type Enrolment struct {
	InstanceID string
	UserID     string
	RoleID     string
	TimeStart  time.Time
	TimeEnd    time.Time
}

// EnrolmentRepository applies role grants and reads enrolment windows.
type EnrolmentRepository interface {
	// GetInstance returns the enabled invitation instance for the course or ErrNoInstanceFound.
	GetInstance(ctx context.Context, courseID string) (*EnrolInstance, error)
	EnrolUser(ctx context.Context, e *Enrolment) error
	// GetEnrolmentEnd reports whether the user has an active enrolment in the course
	// and, if so, its end time (zero when unrestricted).
	GetEnrolmentEnd(ctx context.Context, courseID, userID string) (end time.Time, enrolled bool, err error)
}
