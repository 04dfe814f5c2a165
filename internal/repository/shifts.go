package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// execer 同时由 *sql.DB 和 *sql.Tx 实现
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertShift(ctx context.Context, db execer, shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (schedule_day_id, role_id, start_time, end_time, employee_id, is_on_call)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	params := []any{shift.ScheduleDayID, shift.RoleID, shift.StartTime, shift.EndTime, shift.EmployeeID, shift.IsOnCall}
	if err := db.QueryRowContext(ctx, query, params...).Scan(&shift.ID); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) InsertShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return insertShift(ctx, r.dbpool, shift)
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			role_id = $1,
			start_time = $2,
			end_time = $3,
			employee_id = $4,
			is_on_call = $5
		WHERE id = $6
		RETURNING schedule_day_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{shift.RoleID, shift.StartTime, shift.EndTime, shift.EmployeeID, shift.IsOnCall, shift.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.ScheduleDayID); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// ReplaceShifts 先删除再创建，全部在一个事务中完成，使用事务超时
func (r *Repository) ReplaceShifts(deleteIDs []int64, creates []*domain.Shift) error {
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
		DELETE FROM shifts WHERE id = $1
	`
	for _, id := range deleteIDs {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return err
		}
	}

	for _, shift := range creates {
		if err := insertShift(ctx, tx, shift); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
