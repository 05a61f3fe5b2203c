package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HighEndDeviceThreshold 高端设备价格阈值（含税）
var HighEndDeviceThreshold = decimal.RequireFromString("300.00")

// ITBMSRate 巴拿马 ITBMS 税率
var ITBMSRate = decimal.RequireFromString("0.07")

// CreditProfile 信用局评分快照，由外部系统提供。30 天有效期。
type CreditProfile struct {
	CustomerID      uint            `json:"customer_id"`
	BureauScore     int             `json:"bureau_score"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	ScoreValidUntil time.Time       `json:"score_valid_until"`
}

// IsActive 评分是否仍在有效期内
func (p CreditProfile) IsActive(now time.Time) bool {
	return !p.ScoreValidUntil.IsZero() && !now.After(p.ScoreValidUntil)
}

// IdentityContext 生物识别验证结果，由身份验证 webhook 提供。
// FaceMatchScore 为空表示验证尚未完成，计分时按 0 处理。
type IdentityContext struct {
	FaceMatchScore *decimal.Decimal `json:"face_match_score"`
}

// BiometricConfidence 返回用于计分的置信度，缺失时为 0
func (i IdentityContext) BiometricConfidence() decimal.Decimal {
	if i.FaceMatchScore == nil {
		return decimal.Zero
	}
	return *i.FaceMatchScore
}

// DeviceInfo 设备价格信息（价格含 ITBMS 税）
type DeviceInfo struct {
	DeviceID uint            `json:"device_id"`
	Price    decimal.Decimal `json:"price"`
}

// IsHighEnd 设备价格是否超过高端阈值
func (d DeviceInfo) IsHighEnd() bool {
	return d.Price.GreaterThan(HighEndDeviceThreshold)
}

// PriceWithTax 在基础价之上加收 ITBMS 税
func PriceWithTax(basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Add(basePrice.Mul(ITBMSRate)).Round(2)
}
