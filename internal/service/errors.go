package service

import "errors"

// Ошибки воркфлоу бронирования
var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrStudentNotFound   = errors.New("student not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotUnavailable   = errors.New("this time slot is no longer available")
	ErrIneligible        = errors.New("not eligible for first-time consultation")
	ErrInvalidLessonType = errors.New("invalid lesson type")
	ErrCalendar          = errors.New("failed to create calendar event")
	ErrPersistence       = errors.New("failed to save booking")
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidDate       = errors.New("invalid date")
)
