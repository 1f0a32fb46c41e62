package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"enrolinvitation/internal/domain"
)

const invitationEnrolMethod = "invitation"

type enrolmentRepository struct {
	DB *sql.DB
}

func NewEnrolmentRepository(db *sql.DB) domain.EnrolmentRepository {
	return &enrolmentRepository{
		DB: db,
	}
}

func (r *enrolmentRepository) GetInstance(ctx context.Context, courseID string) (*domain.EnrolInstance, error) {
	query := `
		SELECT id, course_id, enabled
		FROM enrol_instances
		WHERE course_id = $1 AND enrol = $2
		ORDER BY enabled DESC
		LIMIT 1
	`
	inst := &domain.EnrolInstance{}
	err := r.DB.QueryRowContext(ctx, query, courseID, invitationEnrolMethod).Scan(&inst.ID, &inst.CourseID, &inst.Enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoInstanceFound
		}
		return nil, mapInvalidID(err)
	}
	if !inst.Enabled {
		return nil, domain.ErrNoInstanceFound
	}
	return inst, nil
}

// EnrolUser upserts the user's enrolment on the instance and assigns the role in the instance's course.
func (r *enrolmentRepository) EnrolUser(ctx context.Context, e *domain.Enrolment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := applyEnrolment(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

// applyEnrolment writes the enrolment and role assignment inside tx.
func applyEnrolment(ctx context.Context, tx *sql.Tx, e *domain.Enrolment) error {
	var timeEnd sql.NullTime
	if !e.TimeEnd.IsZero() {
		timeEnd = sql.NullTime{Time: e.TimeEnd, Valid: true}
	}
	enrolQuery := `
		INSERT INTO user_enrolments (instance_id, user_id, time_start, time_end, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (instance_id, user_id)
		DO UPDATE SET time_start = EXCLUDED.time_start, time_end = EXCLUDED.time_end, active = TRUE
	`
	if _, err := tx.ExecContext(ctx, enrolQuery, e.InstanceID, e.UserID, e.TimeStart, timeEnd); err != nil {
		return fmt.Errorf("upsert enrolment: %w", err)
	}
	roleQuery := `
		INSERT INTO role_assignments (user_id, role_id, course_id)
		SELECT $1, $2, course_id FROM enrol_instances WHERE id = $3
		ON CONFLICT (user_id, role_id, course_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, roleQuery, e.UserID, e.RoleID, e.InstanceID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func (r *enrolmentRepository) GetEnrolmentEnd(ctx context.Context, courseID, userID string) (time.Time, bool, error) {
	query := `
		SELECT ue.time_end
		FROM user_enrolments ue
		INNER JOIN enrol_instances ei ON ei.id = ue.instance_id
		WHERE ei.course_id = $1 AND ue.user_id = $2 AND ue.active AND ei.enabled
			AND ue.time_start <= NOW() AND (ue.time_end IS NULL OR ue.time_end > NOW())
		ORDER BY ue.time_end DESC NULLS FIRST
		LIMIT 1
	`
	var end sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, courseID, userID).Scan(&end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, mapInvalidID(err)
	}
	if !end.Valid {
		return time.Time{}, true, nil
	}
	return end.Time, true, nil
}
