package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prokaiwa/lesson-booking/internal/calendar"
	"github.com/prokaiwa/lesson-booking/internal/model"
	"github.com/prokaiwa/lesson-booking/internal/queue"
	"github.com/prokaiwa/lesson-booking/internal/repository"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// BookingService - оркестратор бронирований. Последовательно проводит
// create/cancel воркфлоу через реестр, кредитный реестр и календарь,
// компенсируя частичные побочные эффекты при сбоях до коммита.
type BookingService struct {
	students        StudentStore
	bookings        BookingStore
	consultations   ConsultationStore
	pricing         *PricingResolver
	availability    *AvailabilityChecker
	calendarGw      CalendarGateway
	ledger          CreditLedger
	notifier        Notifier
	publisher       EventPublisher
	location        *time.Location
	defaultDuration int
	logger          *zap.Logger
}

func NewBookingService(
	students StudentStore,
	bookings BookingStore,
	consultations ConsultationStore,
	pricing *PricingResolver,
	availability *AvailabilityChecker,
	calendarGw CalendarGateway,
	ledger CreditLedger,
	notifier Notifier,
	publisher EventPublisher,
	location *time.Location,
	defaultDuration int,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		students:        students,
		bookings:        bookings,
		consultations:   consultations,
		pricing:         pricing,
		availability:    availability,
		calendarGw:      calendarGw,
		ledger:          ledger,
		notifier:        notifier,
		publisher:       publisher,
		location:        location,
		defaultDuration: defaultDuration,
		logger:          logger,
	}
}

type CreateRequest struct {
	StudentID   int64
	ScheduledAt time.Time
	LessonType  model.LessonType
	Duration    int
}

type CreateResult struct {
	Booking     *model.Booking
	Message     string
	SideEffects []model.SideEffect
}

// Create проводит воркфлоу создания бронирования.
// До сохранения записи любой сбой отменяет весь воркфлоу; уже созданное
// событие календаря компенсируется удалением. После сохранения сбои
// побочных действий логируются и не откатывают бронирование.
func (s *BookingService) Create(ctx context.Context, userID string, req CreateRequest) (*CreateResult, error) {
	// Шаг 1: аутентификация
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	// Шаг 2: загрузка студента
	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	duration := req.Duration
	if duration <= 0 {
		duration = s.defaultDuration
	}

	// Шаг 3: проверка слота (рекомендательная, см. exclusion constraint ниже)
	available, err := s.availability.IsAvailable(ctx, req.ScheduledAt, duration)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotUnavailable
	}

	// Шаг 4: цена и источник оплаты
	quote, err := s.pricing.Resolve(ctx, req.LessonType, student)
	if err != nil {
		return nil, err
	}

	// Шаг 5: событие календаря. Бронирование ещё не записано,
	// поэтому при сбое компенсировать нечего
	startTime := req.ScheduledAt
	endTime := startTime.Add(time.Duration(duration) * time.Minute)

	event, err := s.calendarGw.CreateEvent(ctx, calendar.EventDetails{
		BookingID:    uuid.NewString(),
		StudentName:  student.DisplayName(),
		StudentEmail: student.Email,
		LessonType:   string(req.LessonType),
		Duration:     duration,
		StartTime:    startTime,
		EndTime:      endTime,
	})
	if err != nil {
		s.logger.Error("Calendar event creation failed",
			zap.Int64("student_id", student.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCalendar, err)
	}

	// Шаг 6: запись бронирования - точка коммита
	booking := &model.Booking{
		StudentID:             student.ID,
		UserID:                userID,
		LessonType:            req.LessonType,
		ScheduledAt:           startTime,
		DurationMinutes:       duration,
		Price:                 quote.Price,
		PaymentStatus:         paymentStatusFor(quote.Price),
		FundingSource:         quote.Source,
		GoogleCalendarEventID: event.EventID,
		GoogleMeetLink:        event.JoinLink,
		Status:                model.BookingStatusScheduled,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		// Компенсация: удаляем только что созданное событие календаря,
		// наружу уходит исходная ошибка записи
		s.compensateCalendarEvent(ctx, event.EventID)

		if errors.Is(err, repository.ErrSlotConflict) {
			// Конкурентная запись успела занять слот после нашей проверки
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", student.ID),
		zap.String("lesson_type", string(booking.LessonType)),
		zap.String("funding_source", string(booking.FundingSource)),
		zap.Int64("price", booking.Price),
		zap.Time("scheduled_at", booking.ScheduledAt),
	)

	// Шаги 7-9: пост-коммитные действия. Урок уже забронирован,
	// их сбои не отменяют его
	sideEffects := s.runCreateSideEffects(ctx, student, booking)

	message := "Booking confirmed!"
	if booking.Price > 0 {
		message = "Booking created - please complete payment"
	}

	s.publishEvent(ctx, queue.QueueBookingCreated, booking, sideEffects)

	return &CreateResult{
		Booking:     booking,
		Message:     message,
		SideEffects: sideEffects,
	}, nil
}

func (s *BookingService) runCreateSideEffects(ctx context.Context, student *model.Student, booking *model.Booking) []model.SideEffect {
	var effects []model.SideEffect

	// Списание кредита - после коммита, чтобы не списать за несозданный урок
	if booking.FundingSource.IsIncluded() {
		if err := s.ledger.UseLessonCredit(ctx, student.ID); err != nil {
			s.logger.Error("Credit debit failed",
				zap.Int64("booking_id", booking.ID),
				zap.Int64("student_id", student.ID),
				zap.Error(err))
			effects = append(effects, model.SideEffectFailed("use_lesson_credit", err))
		} else {
			effects = append(effects, model.SideEffectOK("use_lesson_credit"))
		}
	}

	if booking.LessonType == model.LessonTypeFirstTimeFree {
		if err := s.consultations.MarkClaimed(ctx, student.ID, booking.ID); err != nil {
			s.logger.Error("Consultation claim marking failed",
				zap.Int64("booking_id", booking.ID),
				zap.Int64("student_id", student.ID),
				zap.Error(err))
			effects = append(effects, model.SideEffectFailed("mark_consultation_claimed", err))
		} else {
			effects = append(effects, model.SideEffectOK("mark_consultation_claimed"))
		}
	}

	effects = append(effects, s.sendConfirmation(ctx, student, booking))

	return effects
}

func (s *BookingService) sendConfirmation(ctx context.Context, student *model.Student, booking *model.Booking) model.SideEffect {
	if student.TelegramChatID == 0 {
		return model.SideEffectSkipped("send_confirmation", "student has no notification channel")
	}

	when := booking.ScheduledAt.In(s.location).Format("02 Jan 2006 15:04")
	text := fmt.Sprintf("Hi %s! Your lesson is booked for %s (%d min).",
		student.DisplayName(), when, booking.DurationMinutes)
	if booking.Price > 0 {
		text += fmt.Sprintf(" Please complete payment of ¥%d to confirm.", booking.Price)
	} else {
		text += " See you there!"
	}

	if err := s.notifier.Send(ctx, student.TelegramChatID, text); err != nil {
		s.logger.Warn("Confirmation notification failed",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err))
		return model.SideEffectFailed("send_confirmation", err)
	}

	return model.SideEffectOK("send_confirmation")
}

// compensateCalendarEvent удаляет событие календаря после неудачной записи
// бронирования. Best-effort с ограниченными повторами: при окончательном
// сбое событие останется висеть, это фиксируется в логе
func (s *BookingService) compensateCalendarEvent(ctx context.Context, eventID string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(cctx, backoff, func(ctx context.Context) error {
		if err := s.calendarGw.DeleteEvent(ctx, eventID); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		s.logger.Error("Calendar compensation failed, event left orphaned",
			zap.String("event_id", eventID),
			zap.Error(err))
		return
	}

	s.logger.Info("Calendar event compensated",
		zap.String("event_id", eventID))
}

type CancelRequest struct {
	BookingID int64
	Reason    string
}

type CancelResult struct {
	Refund      string
	Message     string
	SideEffects []model.SideEffect
}

// Cancel проводит воркфлоу отмены. Обновление записи - точка коммита:
// после него отмена необратима, а удаление события календаря и возврат
// кредита выполняются best-effort
func (s *BookingService) Cancel(ctx context.Context, userID string, req CancelRequest) (*CancelResult, error) {
	// Шаг 1: аутентификация и загрузка бронирования в рамках владельца
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	booking, err := s.bookings.GetByIDForUser(ctx, req.BookingID, userID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	// Шаг 2: политика отмены
	now := time.Now()
	assessment := EvaluateCancellation(booking, now)

	// Шаг 3: обновление записи - точка коммита
	cancelled, err := s.bookings.Cancel(ctx, booking.ID, userID, req.Reason, assessment.RefundStatus, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !cancelled {
		// Бронирование уже отменено: переход scheduled -> cancelled ровно один раз
		return nil, ErrBookingNotFound
	}

	booking.Status = model.BookingStatusCancelled
	booking.RefundStatus = assessment.RefundStatus

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", booking.ID),
		zap.String("cancelled_by", userID),
		zap.String("refund_status", string(assessment.RefundStatus)),
		zap.Float64("hours_until_start", assessment.HoursUntil),
	)

	// Шаги 4-5: best-effort синхронизация внешних систем
	var effects []model.SideEffect

	if booking.GoogleCalendarEventID != "" {
		// Устаревшее событие в календаре лучше, чем неотменяемое бронирование
		if err := s.calendarGw.DeleteEvent(ctx, booking.GoogleCalendarEventID); err != nil {
			s.logger.Error("Calendar event deletion failed",
				zap.Int64("booking_id", booking.ID),
				zap.String("event_id", booking.GoogleCalendarEventID),
				zap.Error(err))
			effects = append(effects, model.SideEffectFailed("delete_calendar_event", err))
		} else {
			effects = append(effects, model.SideEffectOK("delete_calendar_event"))
		}
	}

	if restoresCredit(booking, assessment) {
		if err := s.ledger.RestoreLessonCredit(ctx, booking.StudentID); err != nil {
			s.logger.Error("Credit restore failed",
				zap.Int64("booking_id", booking.ID),
				zap.Int64("student_id", booking.StudentID),
				zap.Error(err))
			effects = append(effects, model.SideEffectFailed("restore_lesson_credit", err))
		} else {
			effects = append(effects, model.SideEffectOK("restore_lesson_credit"))
		}
	}

	s.publishEvent(ctx, queue.QueueBookingCancelled, booking, effects)

	// Шаг 6: пояснение о возврате
	return &CancelResult{
		Refund:      RefundMessage(assessment),
		Message:     "Booking cancelled successfully",
		SideEffects: effects,
	}, nil
}

// GetAvailableSlots - чистое чтение без побочных эффектов
func (s *BookingService) GetAvailableSlots(ctx context.Context, date string) ([]*model.Slot, error) {
	return s.availability.ListSlots(ctx, date)
}

func (s *BookingService) publishEvent(ctx context.Context, queueName string, booking *model.Booking, effects []model.SideEffect) {
	// Телеметрия best-effort, ошибки публикации уже залогированы издателем
	_ = s.publisher.Publish(ctx, queueName, queue.BookingEvent{
		BookingID:     booking.ID,
		StudentID:     booking.StudentID,
		LessonType:    booking.LessonType,
		FundingSource: booking.FundingSource,
		Price:         booking.Price,
		ScheduledAt:   booking.ScheduledAt,
		RefundStatus:  booking.RefundStatus,
		SideEffects:   effects,
		OccurredAt:    time.Now().UTC(),
	})
}

func paymentStatusFor(price int64) model.PaymentStatus {
	if price > 0 {
		return model.PaymentStatusPending
	}
	return model.PaymentStatusPaid
}
