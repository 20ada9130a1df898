package model

import "time"

// AvailabilityWindow описывает рабочие часы учителя в конкретный день недели.
// Только чтение: окна редактируются вне этого сервиса.
type AvailabilityWindow struct {
	ID          int64        `json:"id"`
	DayOfWeek   time.Weekday `json:"day_of_week"`
	StartHour   int          `json:"start_hour"`
	EndHour     int          `json:"end_hour"`
	IsAvailable bool         `json:"is_available"`
}

// Slot - кандидат на бронирование, считается заново при каждом запросе и не хранится
type Slot struct {
	Time      time.Time `json:"time"`
	Display   string    `json:"display"`
	Available bool      `json:"available"`
}
