package model

import "time"

type Plan string

const (
	PlanA  Plan = "A"  // Без кредитов, все уроки платные
	PlanC1 Plan = "C1" // Тариф Lite с включёнными уроками
	PlanC2 Plan = "C2" // Тариф Pro с включёнными уроками
)

// HasCredits сообщает, может ли план оплачивать уроки кредитами
func (p Plan) HasCredits() bool {
	return p == PlanC1 || p == PlanC2
}

type Student struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	GivenNameRomaji string    `json:"given_name_romaji"`
	Email           string    `json:"email"`
	Plan            Plan      `json:"plan"`
	TelegramChatID  int64     `json:"telegram_chat_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// DisplayName возвращает имя для календаря и уведомлений
func (s *Student) DisplayName() string {
	if s.GivenNameRomaji != "" {
		return s.GivenNameRomaji
	}
	return s.Name
}
