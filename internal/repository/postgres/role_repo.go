package postgres

import (
	"context"
	"database/sql"
	"errors"

	"enrolinvitation/internal/domain"
)

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `
		SELECT id, short_name, name
		FROM roles
		WHERE id = $1
	`
	role := &domain.Role{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.ShortName, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapInvalidID(err)
	}
	return role, nil
}

func (r *roleRepository) ListByUserInCourse(ctx context.Context, userID, courseID string) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.short_name, r.name
		FROM roles r
		INNER JOIN role_assignments ra ON ra.role_id = r.id
		WHERE ra.user_id = $1 AND ra.course_id = $2
		ORDER BY r.short_name
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, mapInvalidID(err)
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.ShortName, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

type capabilityRepository struct {
	DB *sql.DB
}

// NewCapabilityRepository returns a CapabilityChecker backed by role assignments.
func NewCapabilityRepository(db *sql.DB) domain.CapabilityChecker {
	return &capabilityRepository{DB: db}
}

func (r *capabilityRepository) HasCapability(ctx context.Context, userID, capability, courseID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM role_assignments ra
			INNER JOIN role_capabilities rc ON rc.role_id = ra.role_id
			WHERE ra.user_id = $1 AND ra.course_id = $2 AND rc.capability = $3
		)
	`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, userID, courseID, capability).Scan(&ok); err != nil {
		return false, mapInvalidID(err)
	}
	return ok, nil
}
