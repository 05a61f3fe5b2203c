package domain

// OverviewReport 融资方案总体分析
type OverviewReport struct {
	TotalFinancePlans   int64              `json:"total_finance_plans"`
	TotalCustomers      int64              `json:"total_customers"`
	TotalApproved       int64              `json:"total_approved"`
	TotalRejected       int64              `json:"total_rejected"`
	TotalAmountFinanced float64            `json:"total_amount_financed"`
	AverageInstallment  float64            `json:"average_installment"`
	AvgBureauScore      float64            `json:"avg_bureau_score"`
	TierDistribution    map[RiskTier]int64 `json:"tier_distribution"`
}

// TierReport 按风险分层聚合的分析
type TierReport struct {
	RiskTier            RiskTier `json:"risk_tier"`
	TotalCustomers      int64    `json:"total_customers"`
	TotalFinancePlans   int64    `json:"total_finance_plans"`
	TotalAmountFinanced float64  `json:"total_amount_financed"`
	AverageInstallment  float64  `json:"average_installment"`
}

// CollectionsReport 回款分析
type CollectionsReport struct {
	TotalPayments  int64   `json:"total_payments"`
	TotalCollected float64 `json:"total_collected"`
	TotalPending   float64 `json:"total_pending"`
	CollectionRate float64 `json:"collection_rate"`
}

// OverdueReport 逾期分期分析
type OverdueReport struct {
	TotalOverdueInstallments int64   `json:"total_overdue_installments"`
	TotalOverdueAmount       float64 `json:"total_overdue_amount"`
	PlansWithOverdue         int64   `json:"plans_with_overdue"`
}
