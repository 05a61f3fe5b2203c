package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

// paymentRepository domain.PaymentRepository 的 GORM 实现
type paymentRepository struct {
	db *gorm.DB
}

// Create 插入一条支付流水
func (r *paymentRepository) Create(ctx context.Context, payment *domain.PaymentRecord) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

// List 按支付日期倒序分页
func (r *paymentRepository) List(ctx context.Context, offset, limit int) ([]*domain.PaymentRecord, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.PaymentRecord{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payment records: %w", err)
	}

	var payments []*domain.PaymentRecord
	err := r.db.WithContext(ctx).
		Order("payment_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payment records: %w", err)
	}

	return payments, total, nil
}

// decisionResultRepository domain.DecisionResultRepository 的 GORM 实现
type decisionResultRepository struct {
	db *gorm.DB
}

// Save 保存七因子审计记录
func (r *decisionResultRepository) Save(ctx context.Context, result *domain.DecisionResult) error {
	if err := r.db.WithContext(ctx).Save(result).Error; err != nil {
		return fmt.Errorf("failed to save decision result: %w", err)
	}
	return nil
}

// FindByPlan 按方案查询审计记录
func (r *decisionResultRepository) FindByPlan(ctx context.Context, planID uint) (*domain.DecisionResult, error) {
	var result domain.DecisionResult
	err := r.db.WithContext(ctx).Where("plan_id = ?", planID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find decision result: %w", err)
	}
	return &result, nil
}

// autoPlanRepository domain.AutoPlanRepository 的 GORM 实现
type autoPlanRepository struct {
	db *gorm.DB
}

// Save 保存预审方案
func (r *autoPlanRepository) Save(ctx context.Context, plan *domain.AutoFinancePlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("failed to save auto finance plan: %w", err)
	}
	return nil
}

// FindLatestByCustomer 查询客户最近一次预审方案
func (r *autoPlanRepository) FindLatestByCustomer(ctx context.Context, customerID uint) (*domain.AutoFinancePlan, error) {
	var plan domain.AutoFinancePlan
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find auto finance plan: %w", err)
	}
	return &plan, nil
}

// auditRepository domain.AuditRepository 的 GORM 实现
type auditRepository struct {
	db *gorm.DB
}

// Append 追加一条审计日志
func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}
