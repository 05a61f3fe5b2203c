package domain

import "github.com/shopspring/decimal"

// RiskTier 风险分层，由信用局评分决定
type RiskTier string

const (
	TierA RiskTier = "TIER_A" // low risk, score >= 600
	TierB RiskTier = "TIER_B" // medium risk, 550-599
	TierC RiskTier = "TIER_C" // high risk, 500-549
	TierD RiskTier = "TIER_D" // very high risk, < 500; financing vetoed
)

// TierThresholds 分层阈值，可由配置覆盖
type TierThresholds struct {
	TierAMin int
	TierBMin int
	TierCMin int
}

// DefaultTierThresholds 业务缺省阈值
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{TierAMin: 600, TierBMin: 550, TierCMin: 500}
}

// normalized 补齐未配置的阈值
func (t TierThresholds) normalized() TierThresholds {
	def := DefaultTierThresholds()
	if t.TierAMin <= 0 {
		t.TierAMin = def.TierAMin
	}
	if t.TierBMin <= 0 {
		t.TierBMin = def.TierBMin
	}
	if t.TierCMin <= 0 {
		t.TierCMin = def.TierCMin
	}
	return t
}

// TierRules 每个分层的不可变放款规则
type TierRules struct {
	MinDownPaymentPct     decimal.Decimal
	AllowedTerms          []int
	PaymentCapacityFactor decimal.Decimal
	HighEndExtraPct       decimal.Decimal
}

// ClassifyRiskTier 将信用局评分映射到风险分层。纯函数，低于 C 档下限一律 TIER_D。
func ClassifyRiskTier(score int, thresholds TierThresholds) RiskTier {
	t := thresholds.normalized()
	switch {
	case score >= t.TierAMin:
		return TierA
	case score >= t.TierBMin:
		return TierB
	case score >= t.TierCMin:
		return TierC
	default:
		return TierD
	}
}

// RulesFor 返回分层对应的规则集
func RulesFor(tier RiskTier) TierRules {
	switch tier {
	case TierA:
		return TierRules{
			MinDownPaymentPct:     decimal.NewFromInt(20),
			AllowedTerms:          []int{4, 6, 8},
			PaymentCapacityFactor: decimal.NewFromFloat(0.30),
			HighEndExtraPct:       decimal.Zero,
		}
	case TierB:
		return TierRules{
			MinDownPaymentPct:     decimal.NewFromInt(20),
			AllowedTerms:          []int{6, 8},
			PaymentCapacityFactor: decimal.NewFromFloat(0.20),
			HighEndExtraPct:       decimal.NewFromInt(5),
		}
	case TierC:
		return TierRules{
			MinDownPaymentPct:     decimal.NewFromInt(25),
			AllowedTerms:          []int{8},
			PaymentCapacityFactor: decimal.NewFromFloat(0.15),
			HighEndExtraPct:       decimal.NewFromInt(10),
		}
	default:
		return TierRules{
			MinDownPaymentPct:     decimal.NewFromInt(100),
			AllowedTerms:          nil,
			PaymentCapacityFactor: decimal.Zero,
			HighEndExtraPct:       decimal.Zero,
		}
	}
}

// TermAllowed 判断期数是否在分层允许范围内
func (r TierRules) TermAllowed(term int) bool {
	for _, t := range r.AllowedTerms {
		if t == term {
			return true
		}
	}
	return false
}

// MinTerm 返回分层允许的最短期数，TIER_D 返回 0
func (r TierRules) MinTerm() int {
	if len(r.AllowedTerms) == 0 {
		return 0
	}
	min := r.AllowedTerms[0]
	for _, t := range r.AllowedTerms[1:] {
		if t < min {
			min = t
		}
	}
	return min
}
