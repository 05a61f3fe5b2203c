package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScoreStatus 评分结论
type ScoreStatus string

const (
	ScoreStatusApproved    ScoreStatus = "APPROVED"    // final_score >= 80
	ScoreStatusConditional ScoreStatus = "CONDITIONAL" // 60 <= final_score < 80
	ScoreStatusRejected    ScoreStatus = "REJECTED"    // final_score < 60
)

// InstallmentFrequency 支持的还款频率（天）
const (
	FrequencyBiweekly = 15
	FrequencyMonthly  = 30
)

// ValidFrequency 校验还款频率
func ValidFrequency(days int) bool {
	return days == FrequencyBiweekly || days == FrequencyMonthly
}

// FinancePlan 融资方案实体。由决策引擎按固定顺序填充：
// 分层 → 首付 → EMI → 支付能力 → 条件校验 → 评分，落库后冻结。
type FinancePlan struct {
	ID            uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID uint `gorm:"column:application_id;index;not null" json:"application_id"`
	CustomerID    uint `gorm:"column:customer_id;index;not null" json:"customer_id"`

	// 风险评估
	BureauScore int      `gorm:"column:bureau_score;not null" json:"bureau_score"`
	RiskTier    RiskTier `gorm:"column:risk_tier;type:varchar(10);index;not null" json:"risk_tier"`

	// 设备与定价（价格含税）
	DevicePrice     decimal.Decimal `gorm:"column:device_price;type:decimal(10,2);not null" json:"device_price"`
	IsHighEndDevice bool            `gorm:"column:is_high_end_device;not null" json:"is_high_end_device"`

	// 首付
	MinimumDownPaymentPct decimal.Decimal `gorm:"column:minimum_down_payment_pct;type:decimal(5,2)" json:"minimum_down_payment_pct"`
	ActualDownPayment     decimal.Decimal `gorm:"column:actual_down_payment;type:decimal(10,2);not null" json:"actual_down_payment"`
	DownPaymentPct        decimal.Decimal `gorm:"column:down_payment_pct;type:decimal(5,2)" json:"down_payment_pct"`

	// 融资金额
	AmountToFinance decimal.Decimal `gorm:"column:amount_to_finance;type:decimal(10,2)" json:"amount_to_finance"`

	// 期数与频率
	AllowedTerms             []int `gorm:"column:allowed_terms;type:json;serializer:json" json:"allowed_terms"`
	SelectedTerm             int   `gorm:"column:selected_term;not null" json:"selected_term"`
	InstallmentFrequencyDays int   `gorm:"column:installment_frequency_days;not null;default:30" json:"installment_frequency_days"`

	// EMI（免息）
	MonthlyInstallment decimal.Decimal `gorm:"column:monthly_installment;type:decimal(10,2)" json:"monthly_installment"`
	TotalAmountPayable decimal.Decimal `gorm:"column:total_amount_payable;type:decimal(10,2)" json:"total_amount_payable"`

	// 支付能力
	CustomerMonthlyIncome     decimal.Decimal `gorm:"column:customer_monthly_income;type:decimal(10,2);not null" json:"customer_monthly_income"`
	PaymentCapacityFactor     decimal.Decimal `gorm:"column:payment_capacity_factor;type:decimal(4,2)" json:"payment_capacity_factor"`
	MaximumAllowedInstallment decimal.Decimal `gorm:"column:maximum_allowed_installment;type:decimal(10,2)" json:"maximum_allowed_installment"`
	InstallmentToIncomeRatio  decimal.Decimal `gorm:"column:installment_to_income_ratio;type:decimal(5,2)" json:"installment_to_income_ratio"`
	PaymentCapacityPassed     bool            `gorm:"column:payment_capacity_passed;not null" json:"payment_capacity_passed"`

	// 审批条件
	ConditionsMet      bool   `gorm:"column:conditions_met;not null" json:"conditions_met"`
	RequiresAdjustment bool   `gorm:"column:requires_adjustment;not null" json:"requires_adjustment"`
	AdjustmentNotes    string `gorm:"column:adjustment_notes;type:text" json:"adjustment_notes"`

	// 评分
	FinalScore  int         `gorm:"column:final_score" json:"final_score"`
	ScoreStatus ScoreStatus `gorm:"column:score_status;type:varchar(20)" json:"score_status"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName gorm 表名
func (FinancePlan) TableName() string {
	return "finance_plans"
}

// Rules 返回当前分层的规则集
func (p *FinancePlan) Rules() TierRules {
	return RulesFor(p.RiskTier)
}

// DetermineRiskTier 根据信用局评分确定风险分层
func (p *FinancePlan) DetermineRiskTier(thresholds TierThresholds) RiskTier {
	p.RiskTier = ClassifyRiskTier(p.BureauScore, thresholds)
	rules := p.Rules()
	p.AllowedTerms = append([]int(nil), rules.AllowedTerms...)
	return p.RiskTier
}

// CalculateMinimumDownPayment 计算最低首付比例与金额。
// 高端设备在 TIER_B/TIER_C 档位需要额外的首付比例。
func (p *FinancePlan) CalculateMinimumDownPayment() decimal.Decimal {
	rules := p.Rules()
	minPct := rules.MinDownPaymentPct
	if p.IsHighEndDevice && (p.RiskTier == TierB || p.RiskTier == TierC) {
		minPct = minPct.Add(rules.HighEndExtraPct)
	}
	p.MinimumDownPaymentPct = minPct
	return p.DevicePrice.Mul(minPct).Div(decimal.NewFromInt(100))
}

// RecalculateAmounts 重算首付比例、融资金额与应付总额
func (p *FinancePlan) RecalculateAmounts() {
	if p.DevicePrice.IsPositive() {
		p.DownPaymentPct = p.ActualDownPayment.Div(p.DevicePrice).Mul(decimal.NewFromInt(100)).Round(2)
	}
	p.AmountToFinance = p.DevicePrice.Sub(p.ActualDownPayment)
	p.TotalAmountPayable = p.ActualDownPayment.Add(p.MonthlyInstallment.Mul(decimal.NewFromInt(int64(p.SelectedTerm))))
}

// CalculateEMI 计算免息 EMI：融资金额除以期数，向上取整到整数货币单位。
// 取整只向上，保证放款方不少收。期数或金额为 0 时 EMI 为 0。
func (p *FinancePlan) CalculateEMI() decimal.Decimal {
	if p.SelectedTerm <= 0 || !p.AmountToFinance.IsPositive() {
		p.MonthlyInstallment = decimal.Zero
		return p.MonthlyInstallment
	}
	p.MonthlyInstallment = p.AmountToFinance.Div(decimal.NewFromInt(int64(p.SelectedTerm))).Ceil()
	return p.MonthlyInstallment
}

// CheckPaymentCapacity 校验支付能力：EMI <= k × 月收入。
// TIER_D 的 k 为 0，恒不通过；收入为 0 同样不通过。
func (p *FinancePlan) CheckPaymentCapacity() bool {
	rules := p.Rules()
	p.PaymentCapacityFactor = rules.PaymentCapacityFactor

	if p.RiskTier == TierD {
		p.MaximumAllowedInstallment = decimal.Zero
		p.PaymentCapacityPassed = false
		return false
	}

	p.MaximumAllowedInstallment = p.CustomerMonthlyIncome.Mul(p.PaymentCapacityFactor)

	if !p.CustomerMonthlyIncome.IsPositive() {
		p.InstallmentToIncomeRatio = decimal.Zero
		p.PaymentCapacityPassed = false
		return false
	}

	p.InstallmentToIncomeRatio = p.MonthlyInstallment.Div(p.CustomerMonthlyIncome).Mul(decimal.NewFromInt(100)).Round(2)
	p.PaymentCapacityPassed = p.MonthlyInstallment.LessThanOrEqual(p.MaximumAllowedInstallment)
	return p.PaymentCapacityPassed
}

// ValidateConditions 联合校验首付、期数与支付能力，失败时累积可读的调整说明。
// 拒绝和有条件通过都必须能向客户解释原因。
func (p *FinancePlan) ValidateConditions() bool {
	rules := p.Rules()

	minDown := p.CalculateMinimumDownPayment()
	downPaymentOK := p.ActualDownPayment.GreaterThanOrEqual(minDown)

	termOK := rules.TermAllowed(p.SelectedTerm)

	capacityOK := p.CheckPaymentCapacity()

	highEndOK := true
	if p.IsHighEndDevice && (p.RiskTier == TierB || p.RiskTier == TierC) {
		highEndOK = downPaymentOK
	}

	p.ConditionsMet = downPaymentOK && termOK && capacityOK && highEndOK

	if !p.ConditionsMet {
		p.RequiresAdjustment = true
		var notes []string
		if !downPaymentOK {
			notes = append(notes, fmt.Sprintf("Down payment must be >= %s%%", p.MinimumDownPaymentPct.String()))
		}
		if !termOK {
			notes = append(notes, fmt.Sprintf("Term must be one of: %v months", rules.AllowedTerms))
		}
		if !capacityOK {
			notes = append(notes, fmt.Sprintf("EMI exceeds %s%% of income", p.PaymentCapacityFactor.Mul(decimal.NewFromInt(100)).String()))
		}
		if !highEndOK {
			notes = append(notes, "High-end device requires higher down payment")
		}
		p.AdjustmentNotes = strings.Join(notes, "; ")
	} else {
		p.RequiresAdjustment = false
		p.AdjustmentNotes = ""
	}

	return p.ConditionsMet
}

// CalculateFinalScore 计算加权最终评分并得出结论
func (p *FinancePlan) CalculateFinalScore(signals ScoringSignals) int {
	p.FinalScore = ComputeFinalScore(p.BureauScore, p.MaximumAllowedInstallment, p.MonthlyInstallment, signals)

	switch {
	case p.FinalScore >= 80:
		p.ScoreStatus = ScoreStatusApproved
	case p.FinalScore >= 60:
		p.ScoreStatus = ScoreStatusConditional
	default:
		p.ScoreStatus = ScoreStatusRejected
	}

	return p.FinalScore
}
