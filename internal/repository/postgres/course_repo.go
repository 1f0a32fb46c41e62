package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"enrolinvitation/internal/domain"
)

type courseRepository struct {
	DB *sql.DB
}

func NewCourseRepository(db *sql.DB) domain.CourseRepository {
	return &courseRepository{
		DB: db,
	}
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, full_name, short_name, created_at
		FROM courses
		WHERE id = $1
	`
	c := &domain.Course{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FullName, &c.ShortName, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapInvalidID(err)
	}
	return c, nil
}

type privacyNoticeRepository struct {
	DB *sql.DB
}

// NewPrivacyNoticeProvider returns a PrivacyNoticeProvider reading the course's privacy_notice column.
func NewPrivacyNoticeProvider(db *sql.DB) domain.PrivacyNoticeProvider {
	return &privacyNoticeRepository{DB: db}
}

func (r *privacyNoticeRepository) PrivacyNotice(ctx context.Context, courseID string) (string, bool, error) {
	query := `SELECT privacy_notice FROM courses WHERE id = $1`
	var notice sql.NullString
	err := r.DB.QueryRowContext(ctx, query, courseID).Scan(&notice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return "", false, nil
		}
		return "", false, err
	}
	text := strings.TrimSpace(notice.String)
	if !notice.Valid || text == "" {
		return "", false, nil
	}
	return text, true, nil
}
