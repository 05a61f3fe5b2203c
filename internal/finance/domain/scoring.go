package domain

import "github.com/shopspring/decimal"

// 评分权重，七因子审计记录使用各自独立的权重（见 DecisionResult）
var (
	weightBureau     = decimal.RequireFromString("0.30")
	weightCapacity   = decimal.RequireFromString("0.30")
	weightBiometric  = decimal.RequireFromString("0.20")
	weightReferences = decimal.RequireFromString("0.10")
	weightGeo        = decimal.RequireFromString("0.10")
)

// ScoringSignals 评分所需的外部信号，未就绪的信号显式为 0。
// 不做动态属性探测，所有输入必须显式传入。
type ScoringSignals struct {
	BiometricConfidence decimal.Decimal
	ReferencesScore     decimal.Decimal
	GeoBehaviorScore    decimal.Decimal
}

// SaturatedSignals 所有信号满分，用于测试与基准场景
func SaturatedSignals() ScoringSignals {
	full := decimal.NewFromInt(100)
	return ScoringSignals{
		BiometricConfidence: full,
		ReferencesScore:     full,
		GeoBehaviorScore:    full,
	}
}

// clampScore 将值限制在 [0, 100]
func clampScore(v decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(hundred) {
		return hundred
	}
	return v
}

// NormalizeBureauScore 将 500-800 分段归一化到 0-100
func NormalizeBureauScore(score int) decimal.Decimal {
	norm := decimal.NewFromInt(int64(score - 500)).
		Div(decimal.NewFromInt(300)).
		Mul(decimal.NewFromInt(100))
	return clampScore(norm)
}

// NormalizeCapacityHeadroom 归一化支付能力余量：(上限 - EMI) / 上限 × 100。
// 上限不为正时余量为 0。
func NormalizeCapacityHeadroom(maxInstallment, emi decimal.Decimal) decimal.Decimal {
	if !maxInstallment.IsPositive() {
		return decimal.Zero
	}
	norm := maxInstallment.Sub(emi).Div(maxInstallment).Mul(decimal.NewFromInt(100))
	return clampScore(norm)
}

// ComputeFinalScore 按固定权重合成最终评分，向下取整到整数。
// 全程使用 decimal，避免浮点漂移。
func ComputeFinalScore(bureauScore int, maxInstallment, emi decimal.Decimal, signals ScoringSignals) int {
	apcNorm := NormalizeBureauScore(bureauScore)
	capacityNorm := NormalizeCapacityHeadroom(maxInstallment, emi)

	total := weightBureau.Mul(apcNorm).
		Add(weightCapacity.Mul(capacityNorm)).
		Add(weightBiometric.Mul(clampScore(signals.BiometricConfidence))).
		Add(weightReferences.Mul(clampScore(signals.ReferencesScore))).
		Add(weightGeo.Mul(clampScore(signals.GeoBehaviorScore)))

	return int(total.IntPart())
}
