package queue

import (
	"time"

	"github.com/prokaiwa/lesson-booking/internal/model"
)

const (
	QueueBookingCreated   = "booking.created"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingEvent публикуется после коммита create/cancel воркфлоу.
// SideEffects включает итоги best-effort действий, чтобы телеметрия
// видела расхождения с кредитным реестром и календарём.
type BookingEvent struct {
	BookingID     int64               `json:"booking_id"`
	StudentID     int64               `json:"student_id"`
	LessonType    model.LessonType    `json:"lesson_type"`
	FundingSource model.FundingSource `json:"funding_source"`
	Price         int64               `json:"price"`
	ScheduledAt   time.Time           `json:"scheduled_at"`
	RefundStatus  model.RefundStatus  `json:"refund_status,omitempty"`
	SideEffects   []model.SideEffect  `json:"side_effects,omitempty"`
	OccurredAt    time.Time           `json:"occurred_at"`
}
