package service

import (
	"time"

	"github.com/prokaiwa/lesson-booking/internal/model"
)

// Минимальный срок уведомления об отмене для возврата денег и кредита
const cancellationNoticeHours = 24

// CancellationAssessment - результат оценки политики отмены
type CancellationAssessment struct {
	RefundStatus model.RefundStatus
	HoursUntil   float64
}

// EvaluateCancellation вычисляет статус возврата по времени до начала урока.
// HoursUntil может быть отрицательным для уже прошедших уроков.
func EvaluateCancellation(booking *model.Booking, now time.Time) CancellationAssessment {
	hoursUntil := booking.ScheduledAt.Sub(now).Hours()

	refund := model.RefundStatusNone
	if booking.PaymentStatus == model.PaymentStatusPaid && booking.Price > 0 && hoursUntil >= cancellationNoticeHours {
		// Возврат обрабатывается вручную
		refund = model.RefundStatusPending
	}

	return CancellationAssessment{
		RefundStatus: refund,
		HoursUntil:   hoursUntil,
	}
}

// RefundMessage возвращает пояснение о возврате для ответа пользователю
func RefundMessage(a CancellationAssessment) string {
	switch {
	case a.RefundStatus == model.RefundStatusPending:
		return "Refund will be processed within 3-5 business days"
	case a.HoursUntil < cancellationNoticeHours:
		return "No refund available (less than 24 hours notice)"
	default:
		return "N/A"
	}
}

// restoresCredit сообщает, возвращается ли списанный кредит при отмене
func restoresCredit(booking *model.Booking, a CancellationAssessment) bool {
	return booking.FundingSource.IsIncluded() && a.HoursUntil >= cancellationNoticeHours
}
