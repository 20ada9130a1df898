package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prokaiwa/lesson-booking/internal/model"
	"go.uber.org/zap"
)

// AvailabilityChecker решает, свободно ли время, и генерирует слоты дня
// из рабочих окон учителя. Проверка рекомендательная: между чтением и записью
// нет блокировки, окончательный арбитр - exclusion constraint в реестре.
type AvailabilityChecker struct {
	bookings        BookingStore
	windows         AvailabilityStore
	location        *time.Location
	durationMinutes int
	logger          *zap.Logger
}

func NewAvailabilityChecker(
	bookings BookingStore,
	windows AvailabilityStore,
	location *time.Location,
	durationMinutes int,
	logger *zap.Logger,
) *AvailabilityChecker {
	return &AvailabilityChecker{
		bookings:        bookings,
		windows:         windows,
		location:        location,
		durationMinutes: durationMinutes,
		logger:          logger,
	}
}

// IsAvailable проверяет, что полуинтервал [start, start+duration) не пересекается
// ни с одним запланированным уроком. Урок, заканчивающийся ровно в start,
// и урок, начинающийся ровно в конец интервала, не конфликтуют.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, start time.Time, durationMinutes int) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	count, err := c.bookings.CountOverlapping(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("check slot availability: %w", err)
	}

	return count == 0, nil
}

// ListSlots генерирует доступные слоты на дату (формат YYYY-MM-DD).
// Слоты считаются заново при каждом вызове и нигде не кэшируются.
func (c *AvailabilityChecker) ListSlots(ctx context.Context, date string) ([]*model.Slot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, c.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	windows, err := c.windows.GetActiveByWeekday(ctx, day.Weekday())
	if err != nil {
		return nil, fmt.Errorf("load availability windows: %w", err)
	}

	slots := make([]*model.Slot, 0)
	for _, window := range windows {
		// Почасовые старты от начала окна до его конца, не включая последний час
		for hour := window.StartHour; hour < window.EndHour; hour++ {
			slotTime := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, c.location)

			available, err := c.IsAvailable(ctx, slotTime, c.durationMinutes)
			if err != nil {
				return nil, err
			}

			if available {
				slots = append(slots, &model.Slot{
					Time:      slotTime,
					Display:   fmt.Sprintf("%d:00", hour),
					Available: true,
				})
			}
		}
	}

	c.logger.Debug("Slots generated",
		zap.String("date", date),
		zap.Int("windows", len(windows)),
		zap.Int("available", len(slots)),
	)

	return slots, nil
}
