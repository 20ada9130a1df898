// Package ledger - клиент внешнего кредитного реестра.
// Реестр владеет балансом включённых уроков; сервис бронирования только
// вызывает его атомарные процедуры и никогда не трогает баланс напрямую.
package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreditLedger реализован поверх хранимых функций PostgreSQL
type CreditLedger struct {
	pool *pgxpool.Pool
}

func NewCreditLedger(pool *pgxpool.Pool) *CreditLedger {
	return &CreditLedger{pool: pool}
}

// GetAvailableCredits возвращает количество неиспользованных кредитов студента
func (l *CreditLedger) GetAvailableCredits(ctx context.Context, studentID int64) (int, error) {
	var credits int
	err := l.pool.QueryRow(ctx, `SELECT get_available_credits($1)`, studentID).Scan(&credits)
	if err != nil {
		return 0, fmt.Errorf("get available credits: %w", err)
	}
	return credits, nil
}

// IsEligibleForConsultation проверяет право студента на первую бесплатную консультацию
func (l *CreditLedger) IsEligibleForConsultation(ctx context.Context, studentID int64) (bool, error) {
	var eligible bool
	err := l.pool.QueryRow(ctx, `SELECT is_eligible_for_consultation($1)`, studentID).Scan(&eligible)
	if err != nil {
		return false, fmt.Errorf("check consultation eligibility: %w", err)
	}
	return eligible, nil
}

// UseLessonCredit списывает один кредит студента
func (l *CreditLedger) UseLessonCredit(ctx context.Context, studentID int64) error {
	_, err := l.pool.Exec(ctx, `SELECT use_lesson_credit($1)`, studentID)
	if err != nil {
		return fmt.Errorf("use lesson credit: %w", err)
	}
	return nil
}

// RestoreLessonCredit возвращает студенту один списанный кредит
func (l *CreditLedger) RestoreLessonCredit(ctx context.Context, studentID int64) error {
	_, err := l.pool.Exec(ctx, `SELECT restore_lesson_credit($1)`, studentID)
	if err != nil {
		return fmt.Errorf("restore lesson credit: %w", err)
	}
	return nil
}
