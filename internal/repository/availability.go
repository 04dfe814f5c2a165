package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// 组织内的空闲时间按员工保存，通用空闲时间按用户保存，两张表结构相同
const (
	availabilityTable        = "availability"
	generalAvailabilityTable = "general_availability"
)

func (r *Repository) getWeeklyAvailability(table, ownerColumn string, ownerID int64) (domain.WeeklyAvailability, error) {
	query := fmt.Sprintf(`
		SELECT day_of_week, status, start_time, end_time
		FROM %s WHERE %s = $1
	`, table, ownerColumn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weekly := make(domain.WeeklyAvailability)
	for rows.Next() {
		var a domain.Availability
		if err := rows.Scan(&a.DayOfWeek, &a.Status, &a.StartTime, &a.EndTime); err != nil {
			return nil, err
		}
		weekly[a.DayOfWeek] = a
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return weekly, nil
}

func (r *Repository) upsertAvailability(table, ownerColumn string, ownerID int64, a *domain.Availability) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, day_of_week, status, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, day_of_week) DO UPDATE
		SET status = EXCLUDED.status, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
	`, table, ownerColumn, ownerColumn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{ownerID, a.DayOfWeek, a.Status, a.StartTime, a.EndTime}
	if _, err := r.dbpool.ExecContext(ctx, query, params...); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetAvailability(employeeID int64) (domain.WeeklyAvailability, error) {
	return r.getWeeklyAvailability(availabilityTable, "employee_id", employeeID)
}

func (r *Repository) GetGeneralAvailability(userID int64) (domain.WeeklyAvailability, error) {
	return r.getWeeklyAvailability(generalAvailabilityTable, "user_id", userID)
}

func (r *Repository) UpsertAvailability(employeeID int64, a *domain.Availability) error {
	return r.upsertAvailability(availabilityTable, "employee_id", employeeID, a)
}

func (r *Repository) UpsertGeneralAvailability(userID int64, a *domain.Availability) error {
	return r.upsertAvailability(generalAvailabilityTable, "user_id", userID, a)
}
