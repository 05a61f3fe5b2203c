package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

// analyticsRepository domain.AnalyticsRepository 的 GORM 实现，纯聚合查询
type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建分析仓储实例
func NewAnalyticsRepository(db *gorm.DB) domain.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Overview 融资方案总体聚合
func (r *analyticsRepository) Overview(ctx context.Context) (*domain.OverviewReport, error) {
	var agg struct {
		TotalFinancePlans   int64
		TotalCustomers      int64
		TotalApproved       int64
		TotalRejected       int64
		TotalAmountFinanced float64
		AverageInstallment  float64
		AvgBureauScore      float64
	}

	err := r.db.WithContext(ctx).Model(&domain.FinancePlan{}).
		Select(`COUNT(*) AS total_finance_plans,
			COUNT(DISTINCT customer_id) AS total_customers,
			COALESCE(SUM(score_status = ?), 0) AS total_approved,
			COALESCE(SUM(score_status = ?), 0) AS total_rejected,
			COALESCE(SUM(amount_to_finance), 0) AS total_amount_financed,
			COALESCE(AVG(monthly_installment), 0) AS average_installment,
			COALESCE(AVG(bureau_score), 0) AS avg_bureau_score`,
			domain.ScoreStatusApproved, domain.ScoreStatusRejected).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate overview: %w", err)
	}

	var tiers []struct {
		RiskTier domain.RiskTier
		Count    int64
	}
	err = r.db.WithContext(ctx).Model(&domain.FinancePlan{}).
		Select("risk_tier, COUNT(*) AS count").
		Group("risk_tier").
		Scan(&tiers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tier distribution: %w", err)
	}

	distribution := make(map[domain.RiskTier]int64, len(tiers))
	for _, t := range tiers {
		distribution[t.RiskTier] = t.Count
	}

	return &domain.OverviewReport{
		TotalFinancePlans:   agg.TotalFinancePlans,
		TotalCustomers:      agg.TotalCustomers,
		TotalApproved:       agg.TotalApproved,
		TotalRejected:       agg.TotalRejected,
		TotalAmountFinanced: agg.TotalAmountFinanced,
		AverageInstallment:  agg.AverageInstallment,
		AvgBureauScore:      agg.AvgBureauScore,
		TierDistribution:    distribution,
	}, nil
}

// RiskTiers 按风险分层聚合
func (r *analyticsRepository) RiskTiers(ctx context.Context) ([]*domain.TierReport, error) {
	var reports []*domain.TierReport
	err := r.db.WithContext(ctx).Model(&domain.FinancePlan{}).
		Select(`risk_tier,
			COUNT(DISTINCT customer_id) AS total_customers,
			COUNT(*) AS total_finance_plans,
			COALESCE(SUM(amount_to_finance), 0) AS total_amount_financed,
			COALESCE(AVG(monthly_installment), 0) AS average_installment`).
		Group("risk_tier").
		Order("risk_tier ASC").
		Scan(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate risk tiers: %w", err)
	}
	return reports, nil
}

// Collections 回款聚合：已收、待收与回款率
func (r *analyticsRepository) Collections(ctx context.Context) (*domain.CollectionsReport, error) {
	var agg struct {
		TotalPayments  int64
		TotalCollected float64
	}
	err := r.db.WithContext(ctx).Model(&domain.PaymentRecord{}).
		Where("payment_status = ?", domain.PaymentStatusCompleted).
		Select("COUNT(*) AS total_payments, COALESCE(SUM(payment_amount), 0) AS total_collected").
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collections: %w", err)
	}

	var pending float64
	err = r.db.WithContext(ctx).Model(&domain.EMISchedule{}).
		Where("status <> ?", domain.InstallmentPaid).
		Select("COALESCE(SUM(balance_remaining), 0)").
		Scan(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pending balance: %w", err)
	}

	report := &domain.CollectionsReport{
		TotalPayments:  agg.TotalPayments,
		TotalCollected: agg.TotalCollected,
		TotalPending:   pending,
	}
	if total := agg.TotalCollected + pending; total > 0 {
		report.CollectionRate = agg.TotalCollected / total * 100
	}
	return report, nil
}

// Overdue 逾期聚合：到期未付且已过期的分期
func (r *analyticsRepository) Overdue(ctx context.Context, today time.Time) (*domain.OverdueReport, error) {
	var report domain.OverdueReport
	err := r.db.WithContext(ctx).Model(&domain.EMISchedule{}).
		Where("status NOT IN ? AND due_date < ?",
			[]domain.InstallmentStatus{domain.InstallmentPaid},
			today.Format("2006-01-02")).
		Select(`COUNT(*) AS total_overdue_installments,
			COALESCE(SUM(balance_remaining), 0) AS total_overdue_amount,
			COUNT(DISTINCT plan_id) AS plans_with_overdue`).
		Scan(&report).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate overdue installments: %w", err)
	}
	return &report, nil
}
