// Package mysql 提供了信贷领域仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/db"
)

// repositories 绑定到同一个 *gorm.DB 的仓储集合。
// 事务内的集合绑定事务句柄，事务外的集合绑定连接池。
type repositories struct {
	plans           *planRepository
	schedules       *scheduleRepository
	payments        *paymentRepository
	decisionResults *decisionResultRepository
	autoPlans       *autoPlanRepository
	audits          *auditRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		plans:           &planRepository{db: db},
		schedules:       &scheduleRepository{db: db},
		payments:        &paymentRepository{db: db},
		decisionResults: &decisionResultRepository{db: db},
		autoPlans:       &autoPlanRepository{db: db},
		audits:          &auditRepository{db: db},
	}
}

func (r *repositories) Plans() domain.FinancePlanRepository  { return r.plans }
func (r *repositories) Schedules() domain.ScheduleRepository { return r.schedules }
func (r *repositories) Payments() domain.PaymentRepository   { return r.payments }
func (r *repositories) DecisionResults() domain.DecisionResultRepository {
	return r.decisionResults
}
func (r *repositories) AutoPlans() domain.AutoPlanRepository { return r.autoPlans }
func (r *repositories) Audits() domain.AuditRepository       { return r.audits }

// unitOfWork domain.UnitOfWork 的 GORM 实现
type unitOfWork struct {
	*repositories
	db *db.DB
}

// NewUnitOfWork 创建工作单元实例
func NewUnitOfWork(database *db.DB) domain.UnitOfWork {
	return &unitOfWork{repositories: newRepositories(database.DB), db: database}
}

// InTx 在单个数据库事务内执行回调，回调返回错误时整体回滚
func (u *unitOfWork) InTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return u.db.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// AutoMigrate 建表，仅开发环境使用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.FinancePlan{},
		&domain.EMISchedule{},
		&domain.PaymentRecord{},
		&domain.DecisionResult{},
		&domain.AutoFinancePlan{},
		&domain.AuditLog{},
	)
}
