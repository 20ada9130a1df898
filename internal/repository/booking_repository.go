package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prokaiwa/lesson-booking/internal/model"
)

// ErrSlotConflict возвращается, когда exclusion constraint на lesson_bookings
// отклонил пересекающуюся запись на этапе INSERT
var ErrSlotConflict = errors.New("booking overlaps an existing scheduled lesson")

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, student_id, user_id, lesson_type, scheduled_at, duration_minutes,
		price, payment_status, funding_source, google_calendar_event_id, google_meet_link,
		status, cancelled_at, cancelled_by, cancellation_reason, refund_status, created_at, updated_at`

// Create создаёт новое бронирование со статусом scheduled.
// Конфликт по времени (SQLSTATE 23P01) превращается в ErrSlotConflict.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO lesson_bookings (
			student_id, user_id, lesson_type, scheduled_at, duration_minutes,
			price, payment_status, funding_source, google_calendar_event_id,
			google_meet_link, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.StudentID,
		booking.UserID,
		booking.LessonType,
		booking.ScheduledAt,
		booking.DurationMinutes,
		booking.Price,
		booking.PaymentStatus,
		booking.FundingSource,
		booking.GoogleCalendarEventID,
		booking.GoogleMeetLink,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return ErrSlotConflict
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByIDForUser получает бронирование по ID в рамках владельца
func (r *BookingRepository) GetByIDForUser(ctx context.Context, id int64, userID string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM lesson_bookings
		WHERE id = $1 AND user_id = $2
	`

	booking, err := r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// CountOverlapping считает запланированные уроки, пересекающие полуинтервал [start, end).
// Урок, который заканчивается ровно в start или начинается ровно в end, не пересекается.
func (r *BookingRepository) CountOverlapping(ctx context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_bookings
		WHERE status = 'scheduled'
		  AND scheduled_at < $2
		  AND scheduled_at + make_interval(mins => duration_minutes) > $1
	`

	var count int
	err := r.pool.QueryRow(ctx, query, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}

	return count, nil
}

// Cancel переводит бронирование из scheduled в cancelled и проставляет метаданные отмены.
// Возвращает false, если запланированного бронирования с таким ID нет
// (переход scheduled -> cancelled выполняется ровно один раз).
func (r *BookingRepository) Cancel(ctx context.Context, id int64, cancelledBy, reason string, refund model.RefundStatus, at time.Time) (bool, error) {
	query := `
		UPDATE lesson_bookings
		SET status = 'cancelled',
		    cancelled_at = $2,
		    cancelled_by = $3,
		    cancellation_reason = $4,
		    refund_status = $5,
		    updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
	`

	result, err := r.pool.Exec(ctx, query, id, at, cancelledBy, reason, refund)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *BookingRepository) scanOne(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.UserID,
		&booking.LessonType,
		&booking.ScheduledAt,
		&booking.DurationMinutes,
		&booking.Price,
		&booking.PaymentStatus,
		&booking.FundingSource,
		&booking.GoogleCalendarEventID,
		&booking.GoogleMeetLink,
		&booking.Status,
		&booking.CancelledAt,
		&booking.CancelledBy,
		&booking.CancellationReason,
		&booking.RefundStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &booking, nil
}
