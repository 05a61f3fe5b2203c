package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinalDecision 七因子审计记录的最终结论
type FinalDecision string

const (
	DecisionApproved     FinalDecision = "APPROVED"
	DecisionRejected     FinalDecision = "REJECTED"
	DecisionManualReview FinalDecision = "MANUAL_REVIEW"
)

// DecisionResult 决策引擎的七因子评估审计记录。
// 独立于放款决定本身，为合规追溯而保存每个因子的通过情况与配置权重。
type DecisionResult struct {
	ID            uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlanID        uint `gorm:"column:plan_id;uniqueIndex;not null" json:"plan_id"`
	ApplicationID uint `gorm:"column:application_id;index;not null" json:"application_id"`

	// 1. 信用局评分
	BureauScoreValue  int  `gorm:"column:bureau_score_value;not null" json:"bureau_score_value"`
	BureauScorePassed bool `gorm:"column:bureau_score_passed;not null" json:"bureau_score_passed"`
	BureauScoreWeight int  `gorm:"column:bureau_score_weight;not null;default:30" json:"bureau_score_weight"`

	// 2. 内部评分
	InternalScoreValue  int  `gorm:"column:internal_score_value" json:"internal_score_value"`
	InternalScorePassed bool `gorm:"column:internal_score_passed;not null" json:"internal_score_passed"`
	InternalScoreWeight int  `gorm:"column:internal_score_weight;not null;default:20" json:"internal_score_weight"`

	// 3. 身份验证
	IdentityValidationPassed bool `gorm:"column:identity_validation_passed;not null" json:"identity_validation_passed"`
	IdentityValidationWeight int  `gorm:"column:identity_validation_weight;not null;default:15" json:"identity_validation_weight"`

	// 4. 支付能力
	IncomeAmount             decimal.Decimal `gorm:"column:income_amount;type:decimal(10,2)" json:"income_amount"`
	InstallmentAmount        decimal.Decimal `gorm:"column:installment_amount;type:decimal(10,2)" json:"installment_amount"`
	InstallmentToIncomeRatio decimal.Decimal `gorm:"column:installment_to_income_ratio;type:decimal(5,2)" json:"installment_to_income_ratio"`
	PaymentCapacityPassed    bool            `gorm:"column:payment_capacity_passed;not null" json:"payment_capacity_passed"`
	PaymentCapacityWeight    int             `gorm:"column:payment_capacity_weight;not null;default:15" json:"payment_capacity_weight"`

	// 5. 个人推荐人
	ValidReferencesCount int  `gorm:"column:valid_references_count;not null;default:0" json:"valid_references_count"`
	ReferencesPassed     bool `gorm:"column:references_passed;not null" json:"references_passed"`
	ReferencesWeight     int  `gorm:"column:references_weight;not null;default:10" json:"references_weight"`

	// 6. 反欺诈
	AntiFraudPassed bool   `gorm:"column:anti_fraud_passed;not null" json:"anti_fraud_passed"`
	AntiFraudWeight int    `gorm:"column:anti_fraud_weight;not null;default:10" json:"anti_fraud_weight"`
	AntiFraudNotes  string `gorm:"column:anti_fraud_notes;type:text" json:"anti_fraud_notes"`

	// 7. 商务条件
	InitialPaymentPct          decimal.Decimal `gorm:"column:initial_payment_pct;type:decimal(5,2)" json:"initial_payment_pct"`
	LoanTermMonths             int             `gorm:"column:loan_term_months;not null" json:"loan_term_months"`
	IsHighEndDevice            bool            `gorm:"column:is_high_end_device;not null" json:"is_high_end_device"`
	CommercialConditionsPassed bool            `gorm:"column:commercial_conditions_passed;not null" json:"commercial_conditions_passed"`
	CommercialConditionsWeight int             `gorm:"column:commercial_conditions_weight;not null;default:10" json:"commercial_conditions_weight"`

	// 最终结论
	TotalScore       int           `gorm:"column:total_score;not null" json:"total_score"`
	FinalDecision    FinalDecision `gorm:"column:final_decision;type:varchar(20);not null" json:"final_decision"`
	RejectionReasons []string      `gorm:"column:rejection_reasons;type:json;serializer:json" json:"rejection_reasons"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName gorm 表名
func (DecisionResult) TableName() string {
	return "decision_results"
}

// CalculateTotalScore 按配置权重累加通过的因子
func (r *DecisionResult) CalculateTotalScore() int {
	score := 0
	if r.BureauScorePassed {
		score += r.BureauScoreWeight
	}
	if r.InternalScorePassed {
		score += r.InternalScoreWeight
	}
	if r.IdentityValidationPassed {
		score += r.IdentityValidationWeight
	}
	if r.PaymentCapacityPassed {
		score += r.PaymentCapacityWeight
	}
	if r.ReferencesPassed {
		score += r.ReferencesWeight
	}
	if r.AntiFraudPassed {
		score += r.AntiFraudWeight
	}
	if r.CommercialConditionsPassed {
		score += r.CommercialConditionsWeight
	}
	r.TotalScore = score
	return score
}
