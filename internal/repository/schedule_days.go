package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tavernshift/backend/internal/domain"
)

// InsertScheduleDays 在同一事务中创建多天，任意一天重复都会使整批失败
func (r *Repository) InsertScheduleDays(scheduleID int64, dates []time.Time) ([]domain.ScheduleDay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO schedule_days (schedule_id, date)
		VALUES ($1, $2)
		RETURNING id
	`

	days := make([]domain.ScheduleDay, 0, len(dates))
	for _, date := range dates {
		day := domain.ScheduleDay{
			ScheduleID: scheduleID,
			Date:       domain.Date(date),
			Shifts:     make([]domain.Shift, 0),
		}
		if err := tx.QueryRowContext(ctx, query, scheduleID, day.Date).Scan(&day.ID); err != nil {
			return nil, translateError(err)
		}
		days = append(days, day)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return days, nil
}

// DeleteScheduleDays 在同一事务中删除多天，仍有班次的日期会使整批失败
func (r *Repository) DeleteScheduleDays(ids []int64) error {
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
		DELETE FROM schedule_days WHERE id = $1
	`
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_schedule_day_id_fkey" {
				return domain.NewStateConflictError("请先删除这些日期中的班次", nil)
			}
			return translateError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
