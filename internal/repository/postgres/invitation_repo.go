package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"enrolinvitation/internal/domain"
)

const invitationColumns = `id, courseid, email, token, tokenused, roleid, inviterid, timesent, timeexpiration,
		subject, message, notify_inviter, show_from_email, daysexpire, userid, timeused`

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var daysExpire sql.NullInt64
	var userID sql.NullString
	var timeUsed sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.CourseID, &inv.Email, &inv.Token, &inv.TokenUsed, &inv.RoleID, &inv.InviterID,
		&inv.TimeSent, &inv.TimeExpiration, &inv.Subject, &inv.Message, &inv.NotifyInviter, &inv.ShowFromEmail,
		&daysExpire, &userID, &timeUsed,
	)
	if err != nil {
		return nil, err
	}
	if daysExpire.Valid {
		d := int(daysExpire.Int64)
		inv.DaysExpire = &d
	}
	if userID.Valid {
		inv.UserID = &userID.String
	}
	if timeUsed.Valid {
		inv.TimeUsed = &timeUsed.Time
	}
	return inv, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO enrol_invitations (courseid, email, token, tokenused, roleid, inviterid, timesent, timeexpiration,
			subject, message, notify_inviter, show_from_email, daysexpire)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.CourseID, inv.Email, inv.Token, inv.RoleID, inv.InviterID, inv.TimeSent, inv.TimeExpiration,
		inv.Subject, inv.Message, inv.NotifyInviter, inv.ShowFromEmail, nullInt(inv.DaysExpire),
	).Scan(&inv.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateToken
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM enrol_invitations WHERE id = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapInvalidID(err)
	}
	return inv, nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM enrol_invitations WHERE token = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM enrol_invitations WHERE token = $1)`
	if err := r.DB.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *invitationRepository) ListByCourseID(ctx context.Context, courseID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM enrol_invitations WHERE courseid = $1`
	rows, err := r.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, mapInvalidID(err)
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invs, nil
}

// UpdateForResend refreshes the send time, expiration, email content and flags of an unused invitation.
// Token, role, inviter and daysexpire are never changed.
func (r *invitationRepository) UpdateForResend(ctx context.Context, inv *domain.Invitation) error {
	query := `
		UPDATE enrol_invitations
		SET timesent = $1, timeexpiration = $2, subject = $3, message = $4,
			notify_inviter = $5, show_from_email = $6
		WHERE id = $7 AND tokenused = FALSE
	`
	result, err := r.DB.ExecContext(ctx, query,
		inv.TimeSent, inv.TimeExpiration, inv.Subject, inv.Message,
		inv.NotifyInviter, inv.ShowFromEmail, inv.ID,
	)
	if err != nil {
		return mapInvalidID(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Redeem marks the invitation used by e.UserID at e.TimeStart and applies the enrolment
// in the same transaction. It fails with ErrInvitationUsed if the token was already redeemed.
func (r *invitationRepository) Redeem(ctx context.Context, id string, e *domain.Enrolment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE enrol_invitations
		SET tokenused = TRUE, userid = $1, timeused = $2
		WHERE id = $3 AND tokenused = FALSE
	`
	result, err := tx.ExecContext(ctx, query, e.UserID, e.TimeStart, id)
	if err != nil {
		return mapInvalidID(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationUsed
	}
	if err := applyEnrolment(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM enrol_invitations WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return mapInvalidID(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
