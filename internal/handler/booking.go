package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prokaiwa/lesson-booking/internal/middleware"
	"github.com/prokaiwa/lesson-booking/internal/model"
	"github.com/prokaiwa/lesson-booking/internal/service"
	"go.uber.org/zap"
)

// BookingHandler принимает запрос вида {action, bookingData} и диспетчеризует
// его в соответствующий воркфлоу оркестратора
type BookingHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

type actionRequest struct {
	Action      string          `json:"action"`
	BookingData json.RawMessage `json:"bookingData"`
}

type createPayload struct {
	StudentID   int64            `json:"studentId"`
	ScheduledAt time.Time        `json:"scheduledAt"`
	LessonType  model.LessonType `json:"lessonType"`
	Duration    int              `json:"duration"`
}

type cancelPayload struct {
	BookingID int64  `json:"bookingId"`
	Reason    string `json:"reason"`
}

type slotsPayload struct {
	Date string `json:"date"`
}

// Handle - единая точка входа POST /api/lesson-booking
func (h *BookingHandler) Handle(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	userID, _ := c.Get(middleware.ContextUserID).(string)
	ctx := c.Request().Context()

	switch req.Action {
	case "create":
		var payload createPayload
		if err := json.Unmarshal(req.BookingData, &payload); err != nil {
			return fail(c, http.StatusBadRequest, "invalid booking data")
		}

		result, err := h.bookings.Create(ctx, userID, service.CreateRequest{
			StudentID:   payload.StudentID,
			ScheduledAt: payload.ScheduledAt,
			LessonType:  payload.LessonType,
			Duration:    payload.Duration,
		})
		if err != nil {
			return h.failFromError(c, err)
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success":      true,
			"booking":      result.Booking,
			"message":      result.Message,
			"side_effects": result.SideEffects,
		})

	case "cancel":
		var payload cancelPayload
		if err := json.Unmarshal(req.BookingData, &payload); err != nil {
			return fail(c, http.StatusBadRequest, "invalid booking data")
		}

		result, err := h.bookings.Cancel(ctx, userID, service.CancelRequest{
			BookingID: payload.BookingID,
			Reason:    payload.Reason,
		})
		if err != nil {
			return h.failFromError(c, err)
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success":      true,
			"refund":       result.Refund,
			"message":      result.Message,
			"side_effects": result.SideEffects,
		})

	case "getAvailableSlots":
		var payload slotsPayload
		if err := json.Unmarshal(req.BookingData, &payload); err != nil {
			return fail(c, http.StatusBadRequest, "invalid booking data")
		}

		slots, err := h.bookings.GetAvailableSlots(ctx, payload.Date)
		if err != nil {
			return h.failFromError(c, err)
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"slots":   slots,
		})

	default:
		return h.failFromError(c, service.ErrInvalidAction)
	}
}

// failFromError переводит ошибку воркфлоу в HTTP-статус.
// Наружу уходит только сообщение, без деталей коллабораторов
func (h *BookingHandler) failFromError(c echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSlotUnavailable):
		status = http.StatusConflict
	case errors.Is(err, service.ErrIneligible),
		errors.Is(err, service.ErrInvalidLessonType),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrCalendar):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Booking request failed", zap.Error(err))
		return fail(c, status, "internal error")
	}

	return fail(c, status, err.Error())
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"success": false,
		"error":   message,
	})
}
