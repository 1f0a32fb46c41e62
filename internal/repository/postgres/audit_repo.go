package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"enrolinvitation/internal/domain"
)

type auditRepository struct {
	DB *sql.DB
}

// NewAuditRepository returns an AuditLog persisting events to invitation_events.
func NewAuditRepository(db *sql.DB) domain.AuditLog {
	return &auditRepository{DB: db}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *auditRepository) Emit(ctx context.Context, e *domain.AuditEvent) error {
	var other any
	if len(e.Other) > 0 {
		b, err := json.Marshal(e.Other)
		if err != nil {
			return fmt.Errorf("marshal event data: %w", err)
		}
		other = b
	}
	query := `
		INSERT INTO invitation_events (id, name, actor_id, course_id, invitation_id, email, description, url, other, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, string(e.Name), nullString(e.ActorID), nullString(e.CourseID), nullString(e.InvitationID),
		e.Email, e.Description, e.URL, other, e.CreatedAt,
	)
	return err
}
