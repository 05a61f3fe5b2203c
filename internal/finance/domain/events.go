package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DecisionEvaluatedEvent 放款决策完成事件
type DecisionEvaluatedEvent struct {
	PlanID        uint        `json:"plan_id"`
	ApplicationID uint        `json:"application_id"`
	CustomerID    uint        `json:"customer_id"`
	RiskTier      RiskTier    `json:"risk_tier"`
	FinalScore    int         `json:"final_score"`
	ScoreStatus   ScoreStatus `json:"score_status"`
	Adjusted      bool        `json:"adjusted"`
	EvaluatedAt   time.Time   `json:"evaluated_at"`
}

// PaymentReceivedEvent 收款入账事件
type PaymentReceivedEvent struct {
	PlanID            uint              `json:"plan_id"`
	InstallmentID     uint              `json:"installment_id"`
	InstallmentNumber int               `json:"installment_number"`
	Amount            decimal.Decimal   `json:"amount"`
	Method            PaymentMethod     `json:"method"`
	Status            InstallmentStatus `json:"installment_status"`
	Rescheduled       bool              `json:"rescheduled"`
	PaidAt            time.Time         `json:"paid_at"`
}

// EventPublisher 领域事件发布接口。发布是尽力而为的：
// 事件发送失败不回滚已提交的业务事务。
type EventPublisher interface {
	PublishDecisionEvaluated(ctx context.Context, event DecisionEvaluatedEvent) error
	PublishPaymentReceived(ctx context.Context, event PaymentReceivedEvent) error
}
