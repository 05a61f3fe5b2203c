package application

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
)

// identityPassThreshold 七因子审计中身份验证因子的通过线
var identityPassThreshold = decimal.NewFromInt(70)

// minValidReferences 推荐人因子的最少有效人数
const minValidReferences = 2

// DecisionService 信贷决策引擎。串行执行
// 分层 → 首付 → EMI → 支付能力 → 条件校验 → 评分，
// CONDITIONAL 结果触发一次动态调整后重新评估，第二次结果即为终局。
type DecisionService struct {
	uow        domain.UnitOfWork
	publisher  domain.EventPublisher
	metrics    *metrics.Metrics
	thresholds domain.TierThresholds
}

// NewDecisionService 创建决策引擎实例
func NewDecisionService(
	uow domain.UnitOfWork,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	thresholds domain.TierThresholds,
) *DecisionService {
	return &DecisionService{
		uow:        uow,
		publisher:  publisher,
		metrics:    m,
		thresholds: thresholds,
	}
}

// RunDecision 执行放款决策。
// 信用评分缺失或过期返回 ErrNoActiveScore，不创建方案；
// TIER_A~C 选择了不允许的期数返回 ErrInvalidTerm，不创建方案；
// TIER_D 不报错，完整走完管线并落库一条 REJECTED 方案供审计。
func (s *DecisionService) RunDecision(ctx context.Context, cmd *DecisionCommand) (*DecisionOutcome, error) {
	now := time.Now()

	if !cmd.Profile.IsActive(now) {
		return nil, domain.ErrNoActiveScore
	}
	if !domain.ValidFrequency(cmd.InstallmentFrequencyDays) {
		return nil, domain.ErrInvalidFrequency
	}
	if cmd.ActualDownPayment.GreaterThan(cmd.Device.Price) {
		return nil, domain.ErrInvalidDownPayment
	}

	plan := &domain.FinancePlan{
		ApplicationID:            cmd.ApplicationID,
		CustomerID:               cmd.CustomerID,
		BureauScore:              cmd.Profile.BureauScore,
		DevicePrice:              cmd.Device.Price,
		IsHighEndDevice:          cmd.Device.IsHighEnd(),
		ActualDownPayment:        cmd.ActualDownPayment,
		SelectedTerm:             cmd.SelectedTerm,
		InstallmentFrequencyDays: cmd.InstallmentFrequencyDays,
		CustomerMonthlyIncome:    cmd.Profile.MonthlyIncome,
	}

	plan.DetermineRiskTier(s.thresholds)

	// TIER_D 没有任何允许的期数，放行到完整管线去生成 REJECTED 的审计记录；
	// 其余分层的非法期数直接拒绝，不落库。
	if plan.RiskTier != domain.TierD && !plan.Rules().TermAllowed(cmd.SelectedTerm) {
		return nil, domain.ErrInvalidTerm
	}

	signals := domain.ScoringSignals{
		BiometricConfidence: cmd.Identity.BiometricConfidence(),
		ReferencesScore:     cmd.ReferencesScore,
		GeoBehaviorScore:    cmd.GeoBehaviorScore,
	}

	evaluatePlan(plan, signals)

	adjusted := false
	if plan.ScoreStatus == domain.ScoreStatusConditional {
		s.metrics.AdjustmentsTotal.Inc()
		adjusted = adjustPlan(plan)
		evaluatePlan(plan, signals)
		if adjusted {
			// 重评会清空校验说明，调整痕迹在重评之后补回
			plan.RequiresAdjustment = true
			note := "Plan adjusted: down payment raised and/or term shortened"
			if plan.AdjustmentNotes != "" {
				plan.AdjustmentNotes = plan.AdjustmentNotes + "; " + note
			} else {
				plan.AdjustmentNotes = note
			}
		}
		logger.WithContext(ctx).Info("Dynamic adjustment applied",
			"plan_customer", cmd.CustomerID,
			"changed", adjusted,
			"final_status", plan.ScoreStatus,
		)
	}

	audit := s.buildDecisionResult(plan, cmd)

	err := s.uow.InTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Plans().Save(ctx, plan); err != nil {
			return err
		}
		audit.PlanID = plan.ID
		if err := repos.DecisionResults().Save(ctx, audit); err != nil {
			return err
		}
		return repos.Audits().Append(ctx, &domain.AuditLog{
			Action:      domain.AuditPlanEvaluated,
			CustomerID:  cmd.CustomerID,
			PlanID:      plan.ID,
			Description: "financing decision evaluated",
			Metadata: map[string]any{
				"risk_tier":    plan.RiskTier,
				"final_score":  plan.FinalScore,
				"score_status": plan.ScoreStatus,
				"adjusted":     adjusted,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.DecisionsTotal.WithLabelValues(string(plan.ScoreStatus)).Inc()

	// 事件发布尽力而为，失败不回滚已提交的决策
	pubErr := s.publisher.PublishDecisionEvaluated(ctx, domain.DecisionEvaluatedEvent{
		PlanID:        plan.ID,
		ApplicationID: plan.ApplicationID,
		CustomerID:    plan.CustomerID,
		RiskTier:      plan.RiskTier,
		FinalScore:    plan.FinalScore,
		ScoreStatus:   plan.ScoreStatus,
		Adjusted:      adjusted,
		EvaluatedAt:   now,
	})
	if pubErr != nil {
		logger.WithContext(ctx).Warn("Failed to publish decision event", "error", pubErr, "plan_id", plan.ID)
	}

	return &DecisionOutcome{Plan: plan, Audit: audit, Adjusted: adjusted}, nil
}

// GetPlan 按 ID 查询方案
func (s *DecisionService) GetPlan(ctx context.Context, planID uint) (*domain.FinancePlan, error) {
	return s.uow.Plans().FindByID(ctx, planID)
}

// ListPlans 分页查询方案
func (s *DecisionService) ListPlans(ctx context.Context, offset, limit int) ([]*domain.FinancePlan, int64, error) {
	return s.uow.Plans().List(ctx, offset, limit)
}

// GetDecisionResult 查询方案对应的七因子审计记录
func (s *DecisionService) GetDecisionResult(ctx context.Context, planID uint) (*domain.DecisionResult, error) {
	return s.uow.DecisionResults().FindByPlan(ctx, planID)
}

// evaluatePlan 在分层确定后执行剩余管线：
// 金额 → EMI → 金额重算 → 条件校验 → 评分
func evaluatePlan(plan *domain.FinancePlan, signals domain.ScoringSignals) {
	plan.RecalculateAmounts()
	plan.CalculateEMI()
	plan.RecalculateAmounts()
	plan.ValidateConditions()
	plan.CalculateFinalScore(signals)
}

// adjustPlan 单次动态调整：首付上浮 5 个百分点（不超过设备全价），
// 期数高于分层最短期数时压缩到最短。两项都不适用时方案原样重评。
func adjustPlan(plan *domain.FinancePlan) bool {
	changed := false

	bump := plan.DevicePrice.Mul(decimal.NewFromInt(5)).Div(decimal.NewFromInt(100))
	if next := plan.ActualDownPayment.Add(bump); next.LessThanOrEqual(plan.DevicePrice) {
		plan.ActualDownPayment = next
		changed = true
	}

	if min := plan.Rules().MinTerm(); min > 0 && plan.SelectedTerm > min {
		plan.SelectedTerm = min
		changed = true
	}

	return changed
}

// buildDecisionResult 汇总七个评估因子，独立于放款决定本身保存
func (s *DecisionService) buildDecisionResult(plan *domain.FinancePlan, cmd *DecisionCommand) *domain.DecisionResult {
	result := &domain.DecisionResult{
		ApplicationID: plan.ApplicationID,

		BureauScoreValue:  plan.BureauScore,
		BureauScorePassed: plan.RiskTier != domain.TierD,
		BureauScoreWeight: 30,

		InternalScoreValue:  plan.FinalScore,
		InternalScorePassed: plan.FinalScore >= 60,
		InternalScoreWeight: 20,

		IdentityValidationPassed: cmd.Identity.BiometricConfidence().GreaterThanOrEqual(identityPassThreshold),
		IdentityValidationWeight: 15,

		IncomeAmount:             plan.CustomerMonthlyIncome,
		InstallmentAmount:        plan.MonthlyInstallment,
		InstallmentToIncomeRatio: plan.InstallmentToIncomeRatio,
		PaymentCapacityPassed:    plan.PaymentCapacityPassed,
		PaymentCapacityWeight:    15,

		ValidReferencesCount: cmd.ValidReferencesCount,
		ReferencesPassed:     cmd.ValidReferencesCount >= minValidReferences,
		ReferencesWeight:     10,

		AntiFraudPassed: cmd.AntiFraudPassed,
		AntiFraudWeight: 10,
		AntiFraudNotes:  cmd.AntiFraudNotes,

		InitialPaymentPct:          plan.DownPaymentPct,
		LoanTermMonths:             plan.SelectedTerm,
		IsHighEndDevice:            plan.IsHighEndDevice,
		CommercialConditionsPassed: plan.ConditionsMet,
		CommercialConditionsWeight: 10,
	}

	result.CalculateTotalScore()

	switch plan.ScoreStatus {
	case domain.ScoreStatusApproved:
		result.FinalDecision = domain.DecisionApproved
	case domain.ScoreStatusConditional:
		result.FinalDecision = domain.DecisionManualReview
	default:
		result.FinalDecision = domain.DecisionRejected
	}

	if plan.AdjustmentNotes != "" {
		result.RejectionReasons = strings.Split(plan.AdjustmentNotes, "; ")
	}

	return result
}
