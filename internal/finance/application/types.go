package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

// AutoDecisionCommand 预审请求：设备未选定，只需要信用档案与客户标识
type AutoDecisionCommand struct {
	CustomerID    uint                 `json:"customer_id"`
	ApplicationID uint                 `json:"application_id"`
	Profile       domain.CreditProfile `json:"profile"`
}

// DecisionCommand 放款决策请求，聚合引擎所需的全部外部输入。
// 生物识别、推荐人与地理行为信号未就绪时显式传 0。
type DecisionCommand struct {
	CustomerID    uint `json:"customer_id"`
	ApplicationID uint `json:"application_id"`

	Profile  domain.CreditProfile   `json:"profile"`
	Device   domain.DeviceInfo      `json:"device"`
	Identity domain.IdentityContext `json:"identity"`

	ActualDownPayment        decimal.Decimal `json:"actual_down_payment"`
	SelectedTerm             int             `json:"selected_term"`
	InstallmentFrequencyDays int             `json:"installment_frequency_days"`

	ReferencesScore      decimal.Decimal `json:"references_score"`
	GeoBehaviorScore     decimal.Decimal `json:"geo_behavior_score"`
	ValidReferencesCount int             `json:"valid_references_count"`
	AntiFraudPassed      bool            `json:"anti_fraud_passed"`
	AntiFraudNotes       string          `json:"anti_fraud_notes"`
}

// DecisionOutcome 决策结果：冻结后的方案与七因子审计记录
type DecisionOutcome struct {
	Plan     *domain.FinancePlan    `json:"plan"`
	Audit    *domain.DecisionResult `json:"audit"`
	Adjusted bool                   `json:"adjusted"`
}

// GenerateScheduleCommand 排期生成请求
type GenerateScheduleCommand struct {
	PlanID       uint      `json:"plan_id"`
	FirstDueDate time.Time `json:"first_due_date"`
}

// ScheduleResult Created 为 false 表示方案已有排期，返回的是既有分期
type ScheduleResult struct {
	Installments []*domain.EMISchedule `json:"installments"`
	Created      bool                  `json:"created"`
}

// PaymentCommand 分期付款请求
type PaymentCommand struct {
	InstallmentID        uint                 `json:"installment_id"`
	Amount               decimal.Decimal      `json:"amount"`
	PaymentDate          time.Time            `json:"payment_date"`
	Method               domain.PaymentMethod `json:"method"`
	ReceiptNumber        string               `json:"receipt_number"`
	TransactionReference string               `json:"transaction_reference"`
	Notes                string               `json:"notes"`
}

// PaymentResult 付款结果。Rescheduled 为 true 时 Regenerated
// 携带逾期重排后新生成的未来分期。
type PaymentResult struct {
	Installment *domain.EMISchedule   `json:"installment"`
	Payment     *domain.PaymentRecord `json:"payment"`
	Rescheduled bool                  `json:"rescheduled"`
	Regenerated []*domain.EMISchedule `json:"regenerated,omitempty"`
}
