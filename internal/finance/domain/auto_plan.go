package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvisoryPlan 预审阶段的建议方案：期数 × 还款频率的组合。
// 设备未选定，不计算 EMI。
type AdvisoryPlan struct {
	Months       int `json:"months"`
	IntervalDays int `json:"interval_days"`
}

// AutoFinancePlan 预审方案，在客户选定设备之前给出分层与建议组合。
// 只读的规划辅助，不构成放款决定，也不做支付能力的通过判定。
type AutoFinancePlan struct {
	ID            uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerID    uint `gorm:"column:customer_id;index;not null" json:"customer_id"`
	ApplicationID uint `gorm:"column:application_id;index" json:"application_id"`

	BureauScore int      `gorm:"column:bureau_score;not null" json:"bureau_score"`
	RiskTier    RiskTier `gorm:"column:risk_tier;type:varchar(10);not null" json:"risk_tier"`

	CustomerMonthlyIncome     decimal.Decimal `gorm:"column:customer_monthly_income;type:decimal(10,2);not null" json:"customer_monthly_income"`
	PaymentCapacityFactor     decimal.Decimal `gorm:"column:payment_capacity_factor;type:decimal(4,2)" json:"payment_capacity_factor"`
	MaximumAllowedInstallment decimal.Decimal `gorm:"column:maximum_allowed_installment;type:decimal(10,2)" json:"maximum_allowed_installment"`
	MinimumDownPaymentPct     decimal.Decimal `gorm:"column:minimum_down_payment_pct;type:decimal(5,2)" json:"minimum_down_payment_pct"`
	HighEndExtraPct           decimal.Decimal `gorm:"column:high_end_extra_pct;type:decimal(5,2)" json:"high_end_extra_pct"`

	AllowedPlans []AdvisoryPlan `gorm:"column:allowed_plans;type:json;serializer:json" json:"allowed_plans"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName gorm 表名
func (AutoFinancePlan) TableName() string {
	return "auto_finance_plans"
}

// BuildAdvisoryPlans 枚举分层允许的期数与 {15, 30} 天频率的全组合
func BuildAdvisoryPlans(rules TierRules) []AdvisoryPlan {
	plans := make([]AdvisoryPlan, 0, len(rules.AllowedTerms)*2)
	for _, term := range rules.AllowedTerms {
		for _, freq := range []int{FrequencyBiweekly, FrequencyMonthly} {
			plans = append(plans, AdvisoryPlan{Months: term, IntervalDays: freq})
		}
	}
	return plans
}
