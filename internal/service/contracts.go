package service

import (
	"context"
	"time"

	"github.com/prokaiwa/lesson-booking/internal/calendar"
	"github.com/prokaiwa/lesson-booking/internal/model"
	"github.com/prokaiwa/lesson-booking/internal/queue"
)

// Контракты внешних систем. Конструкторы сервисов принимают интерфейсы,
// чтобы в тестах подставлять фейки вместо живых соединений.

// BookingStore - реестр бронирований (единственный источник правды)
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByIDForUser(ctx context.Context, id int64, userID string) (*model.Booking, error)
	CountOverlapping(ctx context.Context, start, end time.Time) (int, error)
	Cancel(ctx context.Context, id int64, cancelledBy, reason string, refund model.RefundStatus, at time.Time) (bool, error)
}

type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
}

type AvailabilityStore interface {
	GetActiveByWeekday(ctx context.Context, day time.Weekday) ([]*model.AvailabilityWindow, error)
}

type ConsultationStore interface {
	MarkClaimed(ctx context.Context, studentID, bookingID int64) error
}

// CreditLedger - удалённые процедуры кредитного реестра.
// Баланс принадлежит реестру, сервис его не хранит и не пересчитывает.
type CreditLedger interface {
	GetAvailableCredits(ctx context.Context, studentID int64) (int, error)
	IsEligibleForConsultation(ctx context.Context, studentID int64) (bool, error)
	UseLessonCredit(ctx context.Context, studentID int64) error
	RestoreLessonCredit(ctx context.Context, studentID int64) error
}

// CalendarGateway - внешний календарь. Ретраев у шлюза нет,
// компенсация выполняется оркестратором.
type CalendarGateway interface {
	CreateEvent(ctx context.Context, details calendar.EventDetails) (*calendar.CreatedEvent, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Notifier - канал уведомлений, fire-and-forget
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// EventPublisher - телеметрия бронирований
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, event queue.BookingEvent) error
}
