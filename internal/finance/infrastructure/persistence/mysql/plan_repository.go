package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

// planRepository domain.FinancePlanRepository 的 GORM 实现
type planRepository struct {
	db *gorm.DB
}

// Save 保存融资方案，已存在主键时整体更新
func (r *planRepository) Save(ctx context.Context, plan *domain.FinancePlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("failed to save finance plan: %w", err)
	}
	return nil
}

// FindByID 按主键查询方案
func (r *planRepository) FindByID(ctx context.Context, id uint) (*domain.FinancePlan, error) {
	var plan domain.FinancePlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find finance plan: %w", err)
	}
	return &plan, nil
}

// List 按创建时间倒序分页
func (r *planRepository) List(ctx context.Context, offset, limit int) ([]*domain.FinancePlan, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.FinancePlan{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count finance plans: %w", err)
	}

	var plans []*domain.FinancePlan
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list finance plans: %w", err)
	}

	return plans, total, nil
}
