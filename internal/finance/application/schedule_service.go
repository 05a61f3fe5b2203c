package application

import (
	"context"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
)

// ScheduleService EMI 排期服务。生成在单个事务内完成并带幂等保护：
// 方案已有分期时直接返回既有排期，不会产生重叠的第二份。
type ScheduleService struct {
	uow     domain.UnitOfWork
	metrics *metrics.Metrics
}

// NewScheduleService 创建排期服务实例
func NewScheduleService(uow domain.UnitOfWork, m *metrics.Metrics) *ScheduleService {
	return &ScheduleService{uow: uow, metrics: m}
}

// GenerateSchedule 为方案生成完整分期计划。
// 重复调用是无害的：第二次调用返回既有排期，Created 为 false。
func (s *ScheduleService) GenerateSchedule(ctx context.Context, cmd *GenerateScheduleCommand) (*ScheduleResult, error) {
	var result ScheduleResult

	err := s.uow.InTx(ctx, func(repos domain.Repositories) error {
		plan, err := repos.Plans().FindByID(ctx, cmd.PlanID)
		if err != nil {
			return err
		}

		count, err := repos.Schedules().CountByPlan(ctx, plan.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			existing, err := repos.Schedules().FindByPlan(ctx, plan.ID)
			if err != nil {
				return err
			}
			result = ScheduleResult{Installments: existing, Created: false}
			return nil
		}

		installments := domain.GenerateSchedule(plan, cmd.FirstDueDate)
		if err := repos.Schedules().CreateBatch(ctx, installments); err != nil {
			return err
		}

		if err := repos.Audits().Append(ctx, &domain.AuditLog{
			Action:      domain.AuditScheduleGenerated,
			CustomerID:  plan.CustomerID,
			PlanID:      plan.ID,
			Description: "EMI schedule generated",
			Metadata: map[string]any{
				"installments":   len(installments),
				"frequency_days": plan.InstallmentFrequencyDays,
				"first_due_date": cmd.FirstDueDate.Format("2006-01-02"),
			},
		}); err != nil {
			return err
		}

		result = ScheduleResult{Installments: installments, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Created {
		s.metrics.SchedulesGenerated.Inc()
		logger.WithContext(ctx).Info("EMI schedule generated",
			"plan_id", cmd.PlanID,
			"installments", len(result.Installments),
		)
	} else {
		logger.WithContext(ctx).Warn("Duplicate schedule generation attempt, returning existing", "plan_id", cmd.PlanID)
	}

	return &result, nil
}

// GetSchedule 查询方案的全部分期
func (s *ScheduleService) GetSchedule(ctx context.Context, planID uint) ([]*domain.EMISchedule, error) {
	installments, err := s.uow.Schedules().FindByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if len(installments) == 0 {
		return nil, domain.ErrScheduleNotFound
	}
	return installments, nil
}
