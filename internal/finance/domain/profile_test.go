package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditProfile_IsActive(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	active := CreditProfile{ScoreValidUntil: now.Add(24 * time.Hour)}
	assert.True(t, active.IsActive(now))

	expired := CreditProfile{ScoreValidUntil: now.Add(-time.Minute)}
	assert.False(t, expired.IsActive(now))

	// 有效期缺失视为无效评分
	missing := CreditProfile{}
	assert.False(t, missing.IsActive(now))
}

func TestDeviceInfo_IsHighEnd(t *testing.T) {
	assert.False(t, DeviceInfo{Price: decimal.RequireFromString("300.00")}.IsHighEnd())
	assert.True(t, DeviceInfo{Price: decimal.RequireFromString("300.01")}.IsHighEnd())
	assert.False(t, DeviceInfo{Price: decimal.RequireFromString("150.00")}.IsHighEnd())
}

func TestPriceWithTax(t *testing.T) {
	got := PriceWithTax(decimal.RequireFromString("100.00"))
	assert.True(t, got.Equal(decimal.RequireFromString("107.00")), "got %s", got)

	got = PriceWithTax(decimal.RequireFromString("299.99"))
	assert.True(t, got.Equal(decimal.RequireFromString("320.99")), "got %s", got)
}

func TestBuildAdvisoryPlans(t *testing.T) {
	plans := BuildAdvisoryPlans(RulesFor(TierA))
	require.Len(t, plans, 6) // 3 terms × 2 frequencies
	assert.Contains(t, plans, AdvisoryPlan{Months: 4, IntervalDays: 15})
	assert.Contains(t, plans, AdvisoryPlan{Months: 4, IntervalDays: 30})
	assert.Contains(t, plans, AdvisoryPlan{Months: 8, IntervalDays: 30})

	assert.Len(t, BuildAdvisoryPlans(RulesFor(TierC)), 2)
	assert.Empty(t, BuildAdvisoryPlans(RulesFor(TierD)))
}

func TestDecisionResult_CalculateTotalScore(t *testing.T) {
	result := &DecisionResult{
		BureauScorePassed: true, BureauScoreWeight: 30,
		InternalScorePassed: true, InternalScoreWeight: 20,
		IdentityValidationPassed: false, IdentityValidationWeight: 15,
		PaymentCapacityPassed: true, PaymentCapacityWeight: 15,
		ReferencesPassed: false, ReferencesWeight: 10,
		AntiFraudPassed: true, AntiFraudWeight: 10,
		CommercialConditionsPassed: false, CommercialConditionsWeight: 10,
	}

	assert.Equal(t, 75, result.CalculateTotalScore())
	assert.Equal(t, 75, result.TotalScore)
}
