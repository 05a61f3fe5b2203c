package application

import (
	"context"
	"time"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
)

// RunAutoDecision 预审：在客户选定设备前给出风险分层、支付能力上限
// 与全部可选的期数 × 频率组合。只读的规划辅助，不构成放款决定，
// 不做 EMI 计算，也不做支付能力的通过判定。
func (s *DecisionService) RunAutoDecision(ctx context.Context, cmd *AutoDecisionCommand) (*domain.AutoFinancePlan, error) {
	if !cmd.Profile.IsActive(time.Now()) {
		return nil, domain.ErrNoActiveScore
	}

	tier := domain.ClassifyRiskTier(cmd.Profile.BureauScore, s.thresholds)
	rules := domain.RulesFor(tier)

	autoPlan := &domain.AutoFinancePlan{
		CustomerID:                cmd.CustomerID,
		ApplicationID:             cmd.ApplicationID,
		BureauScore:               cmd.Profile.BureauScore,
		RiskTier:                  tier,
		CustomerMonthlyIncome:     cmd.Profile.MonthlyIncome,
		PaymentCapacityFactor:     rules.PaymentCapacityFactor,
		MaximumAllowedInstallment: cmd.Profile.MonthlyIncome.Mul(rules.PaymentCapacityFactor),
		MinimumDownPaymentPct:     rules.MinDownPaymentPct,
		HighEndExtraPct:           rules.HighEndExtraPct,
		AllowedPlans:              domain.BuildAdvisoryPlans(rules),
	}

	err := s.uow.InTx(ctx, func(repos domain.Repositories) error {
		if err := repos.AutoPlans().Save(ctx, autoPlan); err != nil {
			return err
		}
		return repos.Audits().Append(ctx, &domain.AuditLog{
			Action:      domain.AuditAutoPlanGenerated,
			CustomerID:  cmd.CustomerID,
			Description: "pre-qualification advisory plan generated",
			Metadata: map[string]any{
				"risk_tier":     tier,
				"allowed_plans": len(autoPlan.AllowedPlans),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Auto decision generated",
		"customer_id", cmd.CustomerID,
		"risk_tier", tier,
		"advisory_plans", len(autoPlan.AllowedPlans),
	)

	return autoPlan, nil
}

// GetLatestAutoPlan 查询客户最近一次预审结果
func (s *DecisionService) GetLatestAutoPlan(ctx context.Context, customerID uint) (*domain.AutoFinancePlan, error) {
	return s.uow.AutoPlans().FindLatestByCustomer(ctx, customerID)
}
