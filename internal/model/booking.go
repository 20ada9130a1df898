package model

import "time"

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled" // Урок запланирован
	BookingStatusCancelled BookingStatus = "cancelled" // Урок отменён
)

type LessonType string

const (
	LessonTypeStandard      LessonType = "standard"        // Обычный платный урок
	LessonTypeRetention     LessonType = "retention"       // Бесплатный урок для удержания
	LessonTypeFirstTimeFree LessonType = "first_time_free" // Первая бесплатная консультация
)

type FundingSource string

const (
	FundingSourcePaid         FundingSource = "paid"          // Оплачивается деньгами
	FundingSourceRetention    FundingSource = "retention"     // За счёт retention-предложения
	FundingSourceFirstTime    FundingSource = "first_time"    // Первая бесплатная консультация
	FundingSourceIncludedLite FundingSource = "included_lite" // Кредит тарифа Lite (план C1)
	FundingSourceIncludedPro  FundingSource = "included_pro"  // Кредит тарифа Pro (план C2)
)

// IsIncluded сообщает, оплачен ли урок кредитом тарифа
func (f FundingSource) IsIncluded() bool {
	return f == FundingSourceIncludedLite || f == FundingSourceIncludedPro
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // Ожидает оплаты
	PaymentStatusPaid    PaymentStatus = "paid"    // Оплачен (или бесплатный)
)

type RefundStatus string

const (
	RefundStatusNone    RefundStatus = "none"    // Возврат не положен
	RefundStatusPending RefundStatus = "pending" // Возврат будет обработан вручную
)

type Booking struct {
	ID                    int64         `json:"id"`
	StudentID             int64         `json:"student_id"`
	UserID                string        `json:"user_id"`
	LessonType            LessonType    `json:"lesson_type"`
	ScheduledAt           time.Time     `json:"scheduled_at"`
	DurationMinutes       int           `json:"duration_minutes"`
	Price                 int64         `json:"price"`
	PaymentStatus         PaymentStatus `json:"payment_status"`
	FundingSource         FundingSource `json:"funding_source"`
	GoogleCalendarEventID string        `json:"google_calendar_event_id"`
	GoogleMeetLink        string        `json:"google_meet_link"`
	Status                BookingStatus `json:"status"`
	CancelledAt           *time.Time    `json:"cancelled_at,omitempty"`
	CancelledBy           string        `json:"cancelled_by,omitempty"`
	CancellationReason    string        `json:"cancellation_reason,omitempty"`
	RefundStatus          RefundStatus  `json:"refund_status,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// EndTime возвращает время окончания урока
func (b *Booking) EndTime() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
