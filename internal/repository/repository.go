package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/tavernshift/backend/internal/config"
	"github.com/tavernshift/backend/internal/domain"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
	rdb    *redis.Client
}

func NewRepository(cfg *config.Config, dbpool *sql.DB, rdb *redis.Client) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
		rdb:    rdb,
	}
}

// translateError 将数据库约束错误转换为业务错误，其他错误原样返回
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.ConstraintName {
	case "schedule_days_schedule_id_date_key":
		return domain.NewStateConflictError("班表中已存在该日期", nil)
	case "roles_organization_id_name_key":
		return domain.NewValidationError("组织中已存在同名岗位")
	case "employees_organization_id_user_id_key":
		return domain.NewStateConflictError("已经是该组织的成员", nil)
	case "shifts_role_id_fkey":
		return domain.NewStateConflictError("岗位仍被班次引用", nil)
	case "shifts_schedule_day_id_fkey":
		return domain.NewNotFoundError("班表中的日期不存在")
	case "shifts_employee_id_fkey", "role_assignments_employee_id_fkey":
		return domain.NewNotFoundError("员工不存在")
	case "role_assignments_role_id_fkey":
		return domain.NewNotFoundError("岗位不存在")
	case "shifts_time_check":
		return domain.NewValidationError("结束时间必须晚于开始时间")
	case "schedules_dates_check":
		return domain.NewValidationError("提交截止日期必须早于周起始日期")
	}

	return err
}
