package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tavernshift/backend/internal/domain"
)

// 员工信息需要连同 users 表中的联系方式以及已分配的岗位一起查询
const employeeColumns = `
	e.id,
	e.organization_id,
	e.user_id,
	e.status,
	e.system_role,
	e.created_at,
	e.version,
	u.full_name,
	u.email,
	u.notifications_enabled,
	COALESCE(
		(SELECT array_agg(ra.role_id ORDER BY ra.role_id) FROM role_assignments ra WHERE ra.employee_id = e.id),
		'{}'
	)
`

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(m *pgtype.Map, row scanner) (*domain.Employee, error) {
	employee := &domain.Employee{}
	dst := []any{
		&employee.ID,
		&employee.OrganizationID,
		&employee.UserID,
		&employee.Status,
		&employee.SystemRole,
		&employee.CreatedAt,
		&employee.Version,
		&employee.FullName,
		&employee.Email,
		&employee.NotificationsEnabled,
		m.SQLScanner(&employee.RoleIDs),
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if employee.RoleIDs == nil {
		employee.RoleIDs = []int64{}
	}

	return employee, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees e JOIN users u ON u.id = e.user_id WHERE e.id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanEmployee(pgtype.NewMap(), r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetEmployeeByUserID(organizationID, userID int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees e JOIN users u ON u.id = e.user_id WHERE e.organization_id = $1 AND e.user_id = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanEmployee(pgtype.NewMap(), r.dbpool.QueryRowContext(ctx, query, organizationID, userID))
}

func (r *Repository) GetEmployeesByOrganizationID(organizationID int64) ([]*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees e JOIN users u ON u.id = e.user_id WHERE e.organization_id = $1 ORDER BY e.id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := pgtype.NewMap()
	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(m, rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	query := `
		INSERT INTO employees (organization_id, user_id, status, system_role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{employee.OrganizationID, employee.UserID, employee.Status, employee.SystemRole}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&employee.ID, &employee.CreatedAt, &employee.Version); err != nil {
		return translateError(err)
	}

	if employee.RoleIDs == nil {
		employee.RoleIDs = []int64{}
	}

	return nil
}

// UpdateEmployee 更新审核状态和系统角色，version 不一致时返回 sql.ErrNoRows
func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			status = $1,
			system_role = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{employee.Status, employee.SystemRole, employee.ID, employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&employee.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
