package domain

import "time"

// AuditAction 审计动作类型
type AuditAction string

const (
	AuditPlanEvaluated     AuditAction = "PLAN_EVALUATED"
	AuditAutoPlanGenerated AuditAction = "AUTO_PLAN_GENERATED"
	AuditScheduleGenerated AuditAction = "SCHEDULE_GENERATED"
	AuditPaymentReceived   AuditAction = "PAYMENT_RECEIVED"
	AuditPlanRescheduled   AuditAction = "PLAN_RESCHEDULED"
)

// AuditLog 合规审计日志，只追加不修改
type AuditLog struct {
	ID         uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Action     AuditAction `gorm:"column:action;type:varchar(50);index;not null" json:"action"`
	CustomerID uint        `gorm:"column:customer_id;index" json:"customer_id"`
	PlanID     uint        `gorm:"column:plan_id;index" json:"plan_id"`

	Description string         `gorm:"column:description;type:text" json:"description"`
	Metadata    map[string]any `gorm:"column:metadata;type:json;serializer:json" json:"metadata"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// TableName gorm 表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
