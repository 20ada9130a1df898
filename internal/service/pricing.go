package service

import (
	"context"
	"fmt"

	"github.com/prokaiwa/lesson-booking/internal/model"
	"go.uber.org/zap"
)

// Quote - результат расчёта цены урока
type Quote struct {
	Price  int64
	Source model.FundingSource
}

// PricingResolver - чистая функция ценообразования.
// Только читает баланс и право на консультацию; списание кредита выполняет
// оркестратор после сохранения бронирования, чтобы не списать за урок,
// который так и не был создан.
type PricingResolver struct {
	ledger        CreditLedger
	standardPrice int64
	logger        *zap.Logger
}

func NewPricingResolver(ledger CreditLedger, standardPrice int64, logger *zap.Logger) *PricingResolver {
	return &PricingResolver{
		ledger:        ledger,
		standardPrice: standardPrice,
		logger:        logger,
	}
}

// Resolve определяет цену и источник оплаты урока
func (p *PricingResolver) Resolve(ctx context.Context, lessonType model.LessonType, student *model.Student) (Quote, error) {
	switch lessonType {
	case model.LessonTypeStandard:
		return p.resolveStandard(ctx, student), nil

	case model.LessonTypeRetention:
		// Доступ к retention-уроку уже проверен на стороне вызывающего
		return Quote{Price: 0, Source: model.FundingSourceRetention}, nil

	case model.LessonTypeFirstTimeFree:
		eligible, err := p.ledger.IsEligibleForConsultation(ctx, student.ID)
		if err != nil {
			// Ошибку реестра трактуем как отсутствие права
			p.logger.Warn("Consultation eligibility check failed",
				zap.Int64("student_id", student.ID),
				zap.Error(err))
			return Quote{}, ErrIneligible
		}
		if !eligible {
			return Quote{}, ErrIneligible
		}
		return Quote{Price: 0, Source: model.FundingSourceFirstTime}, nil

	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidLessonType, lessonType)
	}
}

func (p *PricingResolver) resolveStandard(ctx context.Context, student *model.Student) Quote {
	if student.Plan.HasCredits() {
		credits, err := p.ledger.GetAvailableCredits(ctx, student.ID)
		if err != nil {
			// При недоступном реестре считаем что кредитов нет - урок платный
			p.logger.Warn("Credit balance check failed",
				zap.Int64("student_id", student.ID),
				zap.Error(err))
			credits = 0
		}

		if credits > 0 {
			source := model.FundingSourceIncludedLite
			if student.Plan == model.PlanC2 {
				source = model.FundingSourceIncludedPro
			}
			return Quote{Price: 0, Source: source}
		}
	}

	return Quote{Price: p.standardPrice, Source: model.FundingSourcePaid}
}
