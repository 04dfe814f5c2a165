package repository

import (
	"context"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// CreateOrganization 创建组织，并在同一事务中将创建者登记为已通过审核的 OWNER
func (r *Repository) CreateOrganization(org *domain.Organization, owner *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO organizations (name, owner_user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, org.Name, org.OwnerUserID).Scan(&org.ID, &org.CreatedAt); err != nil {
		return err
	}

	owner.OrganizationID = org.ID
	owner.UserID = org.OwnerUserID
	owner.Status = domain.EmployeeStatusApproved
	owner.SystemRole = domain.SystemRoleOwner
	owner.RoleIDs = []int64{}

	query = `
		INSERT INTO employees (organization_id, user_id, status, system_role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	params := []any{owner.OrganizationID, owner.UserID, owner.Status, owner.SystemRole}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&owner.ID, &owner.CreatedAt, &owner.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetOrganizationByID(id int64) (*domain.Organization, error) {
	query := `
		SELECT name, owner_user_id, created_at FROM organizations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	org := &domain.Organization{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&org.Name, &org.OwnerUserID, &org.CreatedAt); err != nil {
		return nil, err
	}

	return org, nil
}

// GetOrganizationsByUserID 返回用户所属的全部组织，包括尚在审核中的
func (r *Repository) GetOrganizationsByUserID(userID int64) ([]*domain.Organization, error) {
	query := `
		SELECT o.id, o.name, o.owner_user_id, o.created_at
		FROM organizations o
		JOIN employees e ON e.organization_id = o.id
		WHERE e.user_id = $1
		ORDER BY o.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		org := &domain.Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.OwnerUserID, &org.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orgs, nil
}
