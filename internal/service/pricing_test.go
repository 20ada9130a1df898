package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prokaiwa/lesson-booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStudent(plan model.Plan) *model.Student {
	return &model.Student{ID: 7, Name: "Yuki", Email: "yuki@example.com", Plan: plan}
}

func TestResolveStandardWithCredits(t *testing.T) {
	tests := []struct {
		name   string
		plan   model.Plan
		source model.FundingSource
	}{
		{"plan C1 uses lite credit", model.PlanC1, model.FundingSourceIncludedLite},
		{"plan C2 uses pro credit", model.PlanC2, model.FundingSourceIncludedPro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewPricingResolver(&fakeLedger{credits: 1}, 4000, zap.NewNop())

			quote, err := resolver.Resolve(context.Background(), model.LessonTypeStandard, newStudent(tt.plan))
			require.NoError(t, err)
			assert.Equal(t, int64(0), quote.Price)
			assert.Equal(t, tt.source, quote.Source)
		})
	}
}

func TestResolveStandardWithoutCredits(t *testing.T) {
	resolver := NewPricingResolver(&fakeLedger{credits: 0}, 4000, zap.NewNop())

	quote, err := resolver.Resolve(context.Background(), model.LessonTypeStandard, newStudent(model.PlanC2))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), quote.Price)
	assert.Equal(t, model.FundingSourcePaid, quote.Source)
}

func TestResolveStandardPlanAAlwaysPaid(t *testing.T) {
	// Баланс не должен проверяться для плана без кредитов
	resolver := NewPricingResolver(&fakeLedger{credits: 5}, 4000, zap.NewNop())

	quote, err := resolver.Resolve(context.Background(), model.LessonTypeStandard, newStudent(model.PlanA))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), quote.Price)
	assert.Equal(t, model.FundingSourcePaid, quote.Source)
}

func TestResolveStandardLedgerErrorFallsBackToPaid(t *testing.T) {
	ledger := &fakeLedger{credits: 3, creditsErr: errors.New("ledger down")}
	resolver := NewPricingResolver(ledger, 4000, zap.NewNop())

	quote, err := resolver.Resolve(context.Background(), model.LessonTypeStandard, newStudent(model.PlanC1))
	require.NoError(t, err)
	assert.Equal(t, model.FundingSourcePaid, quote.Source)
	assert.Equal(t, int64(4000), quote.Price)
}

func TestResolveRetention(t *testing.T) {
	resolver := NewPricingResolver(&fakeLedger{}, 4000, zap.NewNop())

	quote, err := resolver.Resolve(context.Background(), model.LessonTypeRetention, newStudent(model.PlanA))
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Price)
	assert.Equal(t, model.FundingSourceRetention, quote.Source)
}

func TestResolveFirstTimeFree(t *testing.T) {
	t.Run("eligible", func(t *testing.T) {
		resolver := NewPricingResolver(&fakeLedger{eligible: true}, 4000, zap.NewNop())

		quote, err := resolver.Resolve(context.Background(), model.LessonTypeFirstTimeFree, newStudent(model.PlanA))
		require.NoError(t, err)
		assert.Equal(t, int64(0), quote.Price)
		assert.Equal(t, model.FundingSourceFirstTime, quote.Source)
	})

	t.Run("already claimed", func(t *testing.T) {
		resolver := NewPricingResolver(&fakeLedger{eligible: false}, 4000, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), model.LessonTypeFirstTimeFree, newStudent(model.PlanA))
		assert.ErrorIs(t, err, ErrIneligible)
	})

	t.Run("eligibility check error", func(t *testing.T) {
		ledger := &fakeLedger{eligible: true, eligibleErr: errors.New("ledger down")}
		resolver := NewPricingResolver(ledger, 4000, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), model.LessonTypeFirstTimeFree, newStudent(model.PlanA))
		assert.ErrorIs(t, err, ErrIneligible)
	})
}

func TestResolveUnknownLessonType(t *testing.T) {
	resolver := NewPricingResolver(&fakeLedger{}, 4000, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), model.LessonType("trial"), newStudent(model.PlanA))
	assert.ErrorIs(t, err, ErrInvalidLessonType)
}
