package domain

import (
	"context"
	"time"
)

// FinancePlanRepository 融资方案仓储
type FinancePlanRepository interface {
	Save(ctx context.Context, plan *FinancePlan) error
	FindByID(ctx context.Context, id uint) (*FinancePlan, error)
	List(ctx context.Context, offset, limit int) ([]*FinancePlan, int64, error)
}

// ScheduleRepository 分期仓储
type ScheduleRepository interface {
	CreateBatch(ctx context.Context, installments []*EMISchedule) error
	FindByPlan(ctx context.Context, planID uint) ([]*EMISchedule, error)
	// FindByIDForUpdate 以行锁读取分期，用于串行化并发付款
	FindByIDForUpdate(ctx context.Context, id uint) (*EMISchedule, error)
	Update(ctx context.Context, installment *EMISchedule) error
	CountByPlan(ctx context.Context, planID uint) (int64, error)
	// DeleteUnpaidAfter 删除期号严格大于 number 且未结清的分期，返回被删除分期的期号
	DeleteUnpaidAfter(ctx context.Context, planID uint, number int) ([]int, error)
}

// PaymentRepository 支付流水仓储
type PaymentRepository interface {
	Create(ctx context.Context, payment *PaymentRecord) error
	List(ctx context.Context, offset, limit int) ([]*PaymentRecord, int64, error)
}

// DecisionResultRepository 七因子审计记录仓储
type DecisionResultRepository interface {
	Save(ctx context.Context, result *DecisionResult) error
	FindByPlan(ctx context.Context, planID uint) (*DecisionResult, error)
}

// AutoPlanRepository 预审方案仓储
type AutoPlanRepository interface {
	Save(ctx context.Context, plan *AutoFinancePlan) error
	FindLatestByCustomer(ctx context.Context, customerID uint) (*AutoFinancePlan, error)
}

// AuditRepository 审计日志仓储，只追加
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditLog) error
}

// AnalyticsRepository 分析查询仓储，纯读
type AnalyticsRepository interface {
	Overview(ctx context.Context) (*OverviewReport, error)
	RiskTiers(ctx context.Context) ([]*TierReport, error)
	Collections(ctx context.Context) (*CollectionsReport, error)
	Overdue(ctx context.Context, today time.Time) (*OverdueReport, error)
}

// Repositories 事务内可用的仓储集合
type Repositories interface {
	Plans() FinancePlanRepository
	Schedules() ScheduleRepository
	Payments() PaymentRepository
	DecisionResults() DecisionResultRepository
	AutoPlans() AutoPlanRepository
	Audits() AuditRepository
}

// UnitOfWork 将多个仓储操作包进同一个数据库事务。
// 回调返回错误时整体回滚，决策落库、排期生成与付款重排都依赖该保证。
type UnitOfWork interface {
	Repositories
	InTx(ctx context.Context, fn func(repos Repositories) error) error
}
