package mysql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

// scheduleRepository domain.ScheduleRepository 的 GORM 实现
type scheduleRepository struct {
	db *gorm.DB
}

// CreateBatch 批量插入分期。(plan_id, installment_number) 上有唯一索引，
// 并发重复生成会触发约束冲突并回滚整个事务。
func (r *scheduleRepository) CreateBatch(ctx context.Context, installments []*domain.EMISchedule) error {
	if len(installments) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(installments).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrScheduleExists
		}
		return fmt.Errorf("failed to create installments: %w", err)
	}
	return nil
}

// FindByPlan 按期号升序返回方案的全部分期
func (r *scheduleRepository) FindByPlan(ctx context.Context, planID uint) ([]*domain.EMISchedule, error) {
	var installments []*domain.EMISchedule
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("installment_number ASC").
		Find(&installments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find installments: %w", err)
	}
	return installments, nil
}

// FindByIDForUpdate 以 SELECT ... FOR UPDATE 读取分期，
// 串行化同一分期上的并发付款
func (r *scheduleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.EMISchedule, error) {
	var installment domain.EMISchedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&installment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, fmt.Errorf("failed to lock installment: %w", err)
	}
	return &installment, nil
}

// Update 整体更新分期
func (r *scheduleRepository) Update(ctx context.Context, installment *domain.EMISchedule) error {
	if err := r.db.WithContext(ctx).Save(installment).Error; err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	return nil
}

// CountByPlan 统计方案的分期数量
func (r *scheduleRepository) CountByPlan(ctx context.Context, planID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.EMISchedule{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count installments: %w", err)
	}
	return count, nil
}

// DeleteUnpaidAfter 删除期号严格大于 number 且未结清的分期，
// 返回被删除分期的期号（升序），供重排时按原期号重新生成
func (r *scheduleRepository) DeleteUnpaidAfter(ctx context.Context, planID uint, number int) ([]int, error) {
	var victims []domain.EMISchedule
	err := r.db.WithContext(ctx).
		Select("id", "installment_number").
		Where("plan_id = ? AND installment_number > ? AND status <> ?",
			planID, number, domain.InstallmentPaid).
		Find(&victims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select installments for reschedule: %w", err)
	}
	if len(victims) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(victims))
	numbers := make([]int, 0, len(victims))
	for _, v := range victims {
		ids = append(ids, v.ID)
		numbers = append(numbers, v.InstallmentNumber)
	}
	sort.Ints(numbers)

	if err := r.db.WithContext(ctx).Delete(&domain.EMISchedule{}, ids).Error; err != nil {
		return nil, fmt.Errorf("failed to delete installments for reschedule: %w", err)
	}

	return numbers, nil
}
