package repository

import (
	"context"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

func (r *Repository) CreateRole(role *domain.Role) error {
	query := `
		INSERT INTO roles (organization_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, role.OrganizationID, role.Name).Scan(&role.ID, &role.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetRoleByID(id int64) (*domain.Role, error) {
	query := `
		SELECT organization_id, name, created_at FROM roles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	role := &domain.Role{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&role.OrganizationID, &role.Name, &role.CreatedAt); err != nil {
		return nil, err
	}

	return role, nil
}

func (r *Repository) GetRolesByOrganizationID(organizationID int64) ([]*domain.Role, error) {
	query := `
		SELECT id, name, created_at FROM roles WHERE organization_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role := &domain.Role{OrganizationID: organizationID}
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

// DeleteRole 在仍有班次引用该岗位时由外键拒绝，返回 StateConflict
func (r *Repository) DeleteRole(id int64) error {
	query := `
		DELETE FROM roles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) CreateRoleAssignment(employeeID, roleID int64) error {
	query := `
		INSERT INTO role_assignments (employee_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (employee_id, role_id) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, roleID); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeleteRoleAssignment(employeeID, roleID int64) error {
	query := `
		DELETE FROM role_assignments WHERE employee_id = $1 AND role_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, roleID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ExistsRoleAssignment(employeeID int64, roleID int64) (bool, error) {
	isExists := false

	query := `
		SELECT EXISTS (SELECT 1 FROM role_assignments WHERE employee_id = $1 AND role_id = $2)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, employeeID, roleID).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
