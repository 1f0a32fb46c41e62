package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"enrolinvitation/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var first, last sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &first, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.FirstName = first.String
	u.LastName = last.String
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name
		FROM users
		WHERE lower(email) = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}
