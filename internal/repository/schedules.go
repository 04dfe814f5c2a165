package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// GetScheduleByID 一次性查询班表及其全部日期和班次
func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.organization_id,
			s.type,
			s.name,
			s.template_name,
			s.week_start_date,
			s.availability_deadline,
			s.is_published,
			s.published_at,
			s.created_at,
			s.version,
			sd.id,
			sd.date,
			sh.id,
			sh.role_id,
			sh.start_time,
			sh.end_time,
			sh.employee_id,
			sh.is_on_call
		FROM schedules s
		LEFT JOIN schedule_days sd ON s.id = sd.schedule_id
		LEFT JOIN shifts sh ON sd.id = sh.schedule_day_id
		WHERE s.id = $1
		ORDER BY sd.date, sh.start_time, sh.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule := &domain.Schedule{
		ID:   id,
		Days: make([]domain.ScheduleDay, 0),
	}
	found := false
	dayIndex := make(map[int64]int) // dayID -> index in schedule.Days

	for rows.Next() {
		var row struct {
			DayID   sql.NullInt64
			DayDate sql.NullTime

			ShiftID    sql.NullInt64
			RoleID     sql.NullInt64
			StartTime  *domain.ClockTime
			EndTime    *domain.ClockTime
			EmployeeID *int64
			IsOnCall   sql.NullBool
		}

		dst := []any{
			&schedule.OrganizationID,
			&schedule.Type,
			&schedule.Name,
			&schedule.TemplateName,
			&schedule.WeekStartDate,
			&schedule.AvailabilityDeadline,
			&schedule.IsPublished,
			&schedule.PublishedAt,
			&schedule.CreatedAt,
			&schedule.Version,
			&row.DayID,
			&row.DayDate,
			&row.ShiftID,
			&row.RoleID,
			&row.StartTime,
			&row.EndTime,
			&row.EmployeeID,
			&row.IsOnCall,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		found = true

		// 班表还没有任何日期
		if !row.DayID.Valid {
			continue
		}

		i, exists := dayIndex[row.DayID.Int64]
		if !exists {
			schedule.Days = append(schedule.Days, domain.ScheduleDay{
				ID:         row.DayID.Int64,
				ScheduleID: id,
				Date:       domain.Date(row.DayDate.Time),
				Shifts:     make([]domain.Shift, 0),
			})
			i = len(schedule.Days) - 1
			dayIndex[row.DayID.Int64] = i
		}

		// 这一天还没有任何班次
		if !row.ShiftID.Valid || row.StartTime == nil {
			continue
		}

		schedule.Days[i].Shifts = append(schedule.Days[i].Shifts, domain.Shift{
			ID:            row.ShiftID.Int64,
			ScheduleDayID: row.DayID.Int64,
			RoleID:        row.RoleID.Int64,
			StartTime:     *row.StartTime,
			EndTime:       row.EndTime,
			EmployeeID:    row.EmployeeID,
			IsOnCall:      row.IsOnCall.Bool,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	normalizeScheduleDates(schedule)

	return schedule, nil
}

// GetSchedulesByOrganizationID 只返回班表本身，不包含日期和班次
func (r *Repository) GetSchedulesByOrganizationID(organizationID int64) ([]*domain.Schedule, error) {
	query := `
		SELECT
			id,
			type,
			name,
			template_name,
			week_start_date,
			availability_deadline,
			is_published,
			published_at,
			created_at,
			version
		FROM schedules
		WHERE organization_id = $1
		ORDER BY week_start_date DESC NULLS LAST, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule := &domain.Schedule{
			OrganizationID: organizationID,
			Days:           make([]domain.ScheduleDay, 0),
		}
		dst := []any{
			&schedule.ID,
			&schedule.Type,
			&schedule.Name,
			&schedule.TemplateName,
			&schedule.WeekStartDate,
			&schedule.AvailabilityDeadline,
			&schedule.IsPublished,
			&schedule.PublishedAt,
			&schedule.CreatedAt,
			&schedule.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		normalizeScheduleDates(schedule)
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) GetScheduleIDByDayID(dayID int64) (int64, error) {
	query := `
		SELECT schedule_id FROM schedule_days WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var scheduleID int64
	if err := r.dbpool.QueryRowContext(ctx, query, dayID).Scan(&scheduleID); err != nil {
		return 0, err
	}

	return scheduleID, nil
}

func (r *Repository) GetScheduleIDByShiftID(shiftID int64) (int64, error) {
	query := `
		SELECT sd.schedule_id
		FROM shifts sh
		JOIN schedule_days sd ON sd.id = sh.schedule_day_id
		WHERE sh.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var scheduleID int64
	if err := r.dbpool.QueryRowContext(ctx, query, shiftID).Scan(&scheduleID); err != nil {
		return 0, err
	}

	return scheduleID, nil
}

// CreateSchedule 在同一事务中写入班表、日期和班次，并回填所有 ID
func (r *Repository) CreateSchedule(schedule *domain.Schedule) error {
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
		INSERT INTO schedules (organization_id, type, name, template_name, week_start_date, availability_deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`
	params := []any{
		schedule.OrganizationID,
		schedule.Type,
		schedule.Name,
		schedule.TemplateName,
		schedule.WeekStartDate,
		schedule.AvailabilityDeadline,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return translateError(err)
	}

	for i := range schedule.Days {
		day := &schedule.Days[i]
		day.ScheduleID = schedule.ID

		query = `
			INSERT INTO schedule_days (schedule_id, date)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, day.ScheduleID, day.Date).Scan(&day.ID); err != nil {
			return translateError(err)
		}

		for j := range day.Shifts {
			day.Shifts[j].ScheduleDayID = day.ID
			if err := insertShift(ctx, tx, &day.Shifts[j]); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateSchedule 只更新班表本身的字段。班表不存在或 version 不一致时
// 返回 StateConflict，调用方需要重新读取后再修改
func (r *Repository) UpdateSchedule(schedule *domain.Schedule) error {
	query := `
		UPDATE schedules
		SET
			type = $1,
			name = $2,
			template_name = $3,
			week_start_date = $4,
			availability_deadline = $5,
			is_published = $6,
			published_at = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		schedule.Type,
		schedule.Name,
		schedule.TemplateName,
		schedule.WeekStartDate,
		schedule.AvailabilityDeadline,
		schedule.IsPublished,
		schedule.PublishedAt,
		schedule.ID,
		schedule.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&schedule.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewStateConflictError("班表已被修改，请刷新后重试", nil)
		}
		return translateError(err)
	}

	return nil
}

// DeleteSchedule 先删除班次，日期随班表级联删除。
// shifts 到 schedule_days 的外键是 RESTRICT，单独删除仍有班次的日期会失败
func (r *Repository) DeleteSchedule(id int64) error {
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
		DELETE FROM shifts
		WHERE schedule_day_id IN (SELECT id FROM schedule_days WHERE schedule_id = $1)
	`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `
		DELETE FROM schedules WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func normalizeScheduleDates(schedule *domain.Schedule) {
	if schedule.WeekStartDate != nil {
		d := domain.Date(*schedule.WeekStartDate)
		schedule.WeekStartDate = &d
	}
	if schedule.AvailabilityDeadline != nil {
		d := domain.Date(*schedule.AvailabilityDeadline)
		schedule.AvailabilityDeadline = &d
	}
}
