package sqlite

import (
	"context"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
)

type rolesRepo struct {
	db dbtx
}

const roleColumns = `id, name, description, permissions, is_active, created_at, updated_at`

func scanRole(row interface{ Scan(...any) error }) (domain.Role, error) {
	var (
		role  domain.Role
		perms string
	)
	err := row.Scan(
		&role.ID, &role.Name, &role.Description, &perms,
		&role.IsActive, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		return domain.Role{}, err
	}
	role.Permissions = splitPermissions(perms)
	return role, nil
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
	role, err := scanRole(row)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = ?`, name)
	role, err := scanRole(row)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, description, permissions, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 1, ?, ?)`,
		role.ID, role.Name, role.Description, joinPermissions(role.Permissions), now, now)
	return err
}

func (r *rolesRepo) UpdateRole(ctx context.Context, roleID string, description string, perms []domain.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE roles SET description = ?, permissions = ?, updated_at = ? WHERE id = ?`,
		description, joinPermissions(perms), time.Now().UTC(), roleID)
	return err
}

func (r *rolesRepo) SetRoleActive(ctx context.Context, roleID string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE roles SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), roleID)
	return err
}

func (r *rolesRepo) DeleteRole(ctx context.Context, roleID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, roleID)
	return err
}
