package model

// SideEffect - итог пост-коммитного действия (списание кредита, уведомление,
// удаление события календаря). Неудачи не откатывают бронирование, но должны
// быть видны оператору, чтобы вовремя заметить расхождение с реестром.
type SideEffect struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func SideEffectOK(name string) SideEffect {
	return SideEffect{Name: name, OK: true}
}

func SideEffectFailed(name string, err error) SideEffect {
	return SideEffect{Name: name, Reason: err.Error()}
}

func SideEffectSkipped(name, reason string) SideEffect {
	return SideEffect{Name: name, OK: true, Reason: reason}
}
