package service

import (
	"context"
	"time"

	"github.com/prokaiwa/lesson-booking/internal/calendar"
	"github.com/prokaiwa/lesson-booking/internal/model"
	"github.com/prokaiwa/lesson-booking/internal/queue"
)

// Фейки коллабораторов для тестов оркестратора

type fakeBookingStore struct {
	bookings  []*model.Booking
	nextID    int64
	createErr error
	countErr  error
}

func (f *fakeBookingStore) Create(_ context.Context, booking *model.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	stored := *booking
	f.bookings = append(f.bookings, &stored)
	return nil
}

func (f *fakeBookingStore) GetByIDForUser(_ context.Context, id int64, userID string) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id && b.UserID == userID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) CountOverlapping(_ context.Context, start, end time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, b := range f.bookings {
		if b.Status != model.BookingStatusScheduled {
			continue
		}
		// полуинтервалы [start, end)
		if b.ScheduledAt.Before(end) && b.EndTime().After(start) {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingStore) Cancel(_ context.Context, id int64, cancelledBy, reason string, refund model.RefundStatus, at time.Time) (bool, error) {
	for _, b := range f.bookings {
		if b.ID == id && b.Status == model.BookingStatusScheduled {
			b.Status = model.BookingStatusCancelled
			b.CancelledBy = cancelledBy
			b.CancellationReason = reason
			b.RefundStatus = refund
			b.CancelledAt = &at
			return true, nil
		}
	}
	return false, nil
}

type fakeStudentStore struct {
	students map[int64]*model.Student
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*model.Student, error) {
	return f.students[id], nil
}

type fakeConsultationStore struct {
	claimed map[int64]int64 // student -> booking
	err     error
}

func (f *fakeConsultationStore) MarkClaimed(_ context.Context, studentID, bookingID int64) error {
	if f.err != nil {
		return f.err
	}
	if f.claimed == nil {
		f.claimed = make(map[int64]int64)
	}
	f.claimed[studentID] = bookingID
	return nil
}

type fakeLedger struct {
	credits      int
	eligible     bool
	creditsErr   error
	eligibleErr  error
	useErr       error
	restoreErr   error
	useCalls     int
	restoreCalls int
}

func (f *fakeLedger) GetAvailableCredits(_ context.Context, _ int64) (int, error) {
	return f.credits, f.creditsErr
}

func (f *fakeLedger) IsEligibleForConsultation(_ context.Context, _ int64) (bool, error) {
	return f.eligible, f.eligibleErr
}

func (f *fakeLedger) UseLessonCredit(_ context.Context, _ int64) error {
	if f.useErr != nil {
		return f.useErr
	}
	f.useCalls++
	f.credits--
	return nil
}

func (f *fakeLedger) RestoreLessonCredit(_ context.Context, _ int64) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restoreCalls++
	f.credits++
	return nil
}

type fakeCalendar struct {
	created   []calendar.EventDetails
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, details calendar.EventDetails) (*calendar.CreatedEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, details)
	return &calendar.CreatedEvent{EventID: "evt-1", JoinLink: "https://meet.example/abc"}, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, _ int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

type fakePublisher struct {
	events []queue.BookingEvent
	queues []string
}

func (f *fakePublisher) Publish(_ context.Context, queueName string, event queue.BookingEvent) error {
	f.queues = append(f.queues, queueName)
	f.events = append(f.events, event)
	return nil
}
