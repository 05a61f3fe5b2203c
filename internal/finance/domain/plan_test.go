package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEMI_RoundsUp(t *testing.T) {
	cases := []struct {
		amount string
		term   int
		want   string
	}{
		{amount: "240.00", term: 8, want: "30"},
		{amount: "241.00", term: 8, want: "31"},
		{amount: "100.00", term: 3, want: "34"},
		{amount: "0.01", term: 8, want: "1"},
	}

	for _, tc := range cases {
		plan := &FinancePlan{
			AmountToFinance: decimal.RequireFromString(tc.amount),
			SelectedTerm:    tc.term,
		}
		emi := plan.CalculateEMI()
		assert.True(t, emi.Equal(decimal.RequireFromString(tc.want)),
			"amount=%s term=%d: want %s, got %s", tc.amount, tc.term, tc.want, emi)
	}
}

func TestCalculateEMI_RoundingExcessBounded(t *testing.T) {
	// emi × term 永远覆盖融资金额，且多收不超过 term 个货币单位
	amounts := []string{"239.99", "240.00", "240.01", "317.43", "1.00", "999.97"}
	terms := []int{4, 6, 8}

	for _, a := range amounts {
		for _, term := range terms {
			plan := &FinancePlan{
				AmountToFinance: decimal.RequireFromString(a),
				SelectedTerm:    term,
			}
			emi := plan.CalculateEMI()
			total := emi.Mul(decimal.NewFromInt(int64(term)))

			assert.True(t, total.GreaterThanOrEqual(plan.AmountToFinance),
				"amount=%s term=%d: emi×term=%s undercollects", a, term, total)
			assert.True(t, total.Sub(plan.AmountToFinance).LessThan(decimal.NewFromInt(int64(term))),
				"amount=%s term=%d: rounding excess %s too large", a, term, total.Sub(plan.AmountToFinance))
		}
	}
}

func TestCalculateEMI_DefensiveDefaults(t *testing.T) {
	zeroTerm := &FinancePlan{AmountToFinance: decimal.NewFromInt(240), SelectedTerm: 0}
	assert.True(t, zeroTerm.CalculateEMI().IsZero())

	zeroAmount := &FinancePlan{AmountToFinance: decimal.Zero, SelectedTerm: 8}
	assert.True(t, zeroAmount.CalculateEMI().IsZero())
}

func TestCheckPaymentCapacity(t *testing.T) {
	plan := &FinancePlan{
		RiskTier:              TierA,
		CustomerMonthlyIncome: decimal.NewFromInt(1000),
		MonthlyInstallment:    decimal.NewFromInt(30),
	}

	require.True(t, plan.CheckPaymentCapacity())
	assert.True(t, plan.MaximumAllowedInstallment.Equal(decimal.NewFromInt(300)))
	assert.True(t, plan.InstallmentToIncomeRatio.Equal(decimal.NewFromInt(3)))
	assert.True(t, plan.PaymentCapacityPassed)
}

func TestCheckPaymentCapacity_OverCap(t *testing.T) {
	plan := &FinancePlan{
		RiskTier:              TierC,
		CustomerMonthlyIncome: decimal.NewFromInt(1000),
		MonthlyInstallment:    decimal.NewFromInt(151), // cap is 150 for tier C
	}

	assert.False(t, plan.CheckPaymentCapacity())
	assert.True(t, plan.MaximumAllowedInstallment.Equal(decimal.NewFromInt(150)))
}

func TestCheckPaymentCapacity_TierDAlwaysFails(t *testing.T) {
	plan := &FinancePlan{
		RiskTier:              TierD,
		CustomerMonthlyIncome: decimal.NewFromInt(10000),
		MonthlyInstallment:    decimal.NewFromInt(1),
	}

	assert.False(t, plan.CheckPaymentCapacity())
	assert.True(t, plan.MaximumAllowedInstallment.IsZero())
}

func TestCheckPaymentCapacity_ZeroIncomeFails(t *testing.T) {
	plan := &FinancePlan{
		RiskTier:              TierA,
		CustomerMonthlyIncome: decimal.Zero,
		MonthlyInstallment:    decimal.NewFromInt(30),
	}

	assert.False(t, plan.CheckPaymentCapacity())
	assert.True(t, plan.InstallmentToIncomeRatio.IsZero())
}

func TestCalculateMinimumDownPayment_HighEndSurcharge(t *testing.T) {
	// TIER_B 高端设备需要 20% + 5% 首付
	plan := &FinancePlan{
		RiskTier:        TierB,
		DevicePrice:     decimal.NewFromInt(400),
		IsHighEndDevice: true,
	}

	minDown := plan.CalculateMinimumDownPayment()
	assert.True(t, plan.MinimumDownPaymentPct.Equal(decimal.NewFromInt(25)))
	assert.True(t, minDown.Equal(decimal.NewFromInt(100)))

	// TIER_A 不加收高端附加
	planA := &FinancePlan{
		RiskTier:        TierA,
		DevicePrice:     decimal.NewFromInt(400),
		IsHighEndDevice: true,
	}
	minDownA := planA.CalculateMinimumDownPayment()
	assert.True(t, planA.MinimumDownPaymentPct.Equal(decimal.NewFromInt(20)))
	assert.True(t, minDownA.Equal(decimal.NewFromInt(80)))
}

func TestValidateConditions_AllPass(t *testing.T) {
	plan := &FinancePlan{
		RiskTier:              TierA,
		DevicePrice:           decimal.NewFromInt(300),
		ActualDownPayment:     decimal.NewFromInt(60),
		SelectedTerm:          8,
		CustomerMonthlyIncome: decimal.NewFromInt(1000),
		MonthlyInstallment:    decimal.NewFromInt(30),
	}

	assert.True(t, plan.ValidateConditions())
	assert.True(t, plan.ConditionsMet)
	assert.False(t, plan.RequiresAdjustment)
	assert.Empty(t, plan.AdjustmentNotes)
}

func TestValidateConditions_HighEndShortfall(t *testing.T) {
	// 560 分 → TIER_B，400 的高端设备只付 20% 首付：差 5 个百分点
	plan := &FinancePlan{
		RiskTier:              TierB,
		DevicePrice:           decimal.NewFromInt(400),
		IsHighEndDevice:       true,
		ActualDownPayment:     decimal.NewFromInt(80),
		SelectedTerm:          8,
		CustomerMonthlyIncome: decimal.NewFromInt(1000),
		MonthlyInstallment:    decimal.NewFromInt(40),
	}

	assert.False(t, plan.ValidateConditions())
	assert.True(t, plan.RequiresAdjustment)
	assert.Contains(t, plan.AdjustmentNotes, "Down payment must be >= 25%")
	assert.Contains(t, plan.AdjustmentNotes, "High-end device requires higher down payment")
}

func TestValidateConditions_InvalidTermNote(t *testing.T) {
	plan := &FinancePlan{
		RiskTier:              TierC,
		DevicePrice:           decimal.NewFromInt(200),
		ActualDownPayment:     decimal.NewFromInt(50),
		SelectedTerm:          6, // tier C only allows 8
		CustomerMonthlyIncome: decimal.NewFromInt(1000),
		MonthlyInstallment:    decimal.NewFromInt(25),
	}

	assert.False(t, plan.ValidateConditions())
	assert.Contains(t, plan.AdjustmentNotes, "Term must be one of: [8] months")
}

func TestRecalculateAmounts(t *testing.T) {
	plan := &FinancePlan{
		DevicePrice:        decimal.NewFromInt(300),
		ActualDownPayment:  decimal.NewFromInt(60),
		SelectedTerm:       8,
		MonthlyInstallment: decimal.NewFromInt(30),
	}

	plan.RecalculateAmounts()

	assert.True(t, plan.DownPaymentPct.Equal(decimal.NewFromInt(20)))
	assert.True(t, plan.AmountToFinance.Equal(decimal.NewFromInt(240)))
	assert.True(t, plan.TotalAmountPayable.Equal(decimal.NewFromInt(300)))
}

func TestCalculateFinalScore_StatusBands(t *testing.T) {
	base := func(score int) *FinancePlan {
		return &FinancePlan{
			BureauScore:               score,
			MaximumAllowedInstallment: decimal.NewFromInt(300),
			MonthlyInstallment:        decimal.NewFromInt(30),
		}
	}

	// 800 分满格：0.3×100 + 0.3×90 + 40 = 97 → APPROVED
	approved := base(800)
	approved.CalculateFinalScore(SaturatedSignals())
	assert.Equal(t, 97, approved.FinalScore)
	assert.Equal(t, ScoreStatusApproved, approved.ScoreStatus)

	// 620 分：0.3×40 + 0.3×90 + 40 = 79 → CONDITIONAL
	conditional := base(620)
	conditional.CalculateFinalScore(SaturatedSignals())
	assert.Equal(t, 79, conditional.FinalScore)
	assert.Equal(t, ScoreStatusConditional, conditional.ScoreStatus)

	// 信号全缺省为 0：0.3×40 + 0.3×90 = 39 → REJECTED
	rejected := base(620)
	rejected.CalculateFinalScore(ScoringSignals{})
	assert.Equal(t, 39, rejected.FinalScore)
	assert.Equal(t, ScoreStatusRejected, rejected.ScoreStatus)
}
