package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prokaiwa/lesson-booking/internal/model"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// GetActiveByWeekday получает активные рабочие окна учителя на день недели
func (r *AvailabilityRepository) GetActiveByWeekday(ctx context.Context, day time.Weekday) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT id, day_of_week, start_hour, end_hour, is_available
		FROM teacher_availability
		WHERE day_of_week = $1 AND is_available = true
		ORDER BY start_hour
	`

	rows, err := r.pool.Query(ctx, query, int(day))
	if err != nil {
		return nil, fmt.Errorf("get availability windows: %w", err)
	}
	defer rows.Close()

	var windows []*model.AvailabilityWindow
	for rows.Next() {
		var window model.AvailabilityWindow
		var dayOfWeek int
		err := rows.Scan(
			&window.ID,
			&dayOfWeek,
			&window.StartHour,
			&window.EndHour,
			&window.IsAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		window.DayOfWeek = time.Weekday(dayOfWeek)
		windows = append(windows, &window)
	}

	return windows, nil
}
