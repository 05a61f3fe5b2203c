package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
)

func seedPlan(t *testing.T, uow *memUow, term, freq int) *domain.FinancePlan {
	t.Helper()
	plan := &domain.FinancePlan{
		CustomerID:               1,
		SelectedTerm:             term,
		InstallmentFrequencyDays: freq,
		MonthlyInstallment:       decimal.NewFromInt(30),
		ScoreStatus:              domain.ScoreStatusApproved,
	}
	require.NoError(t, uow.Plans().Save(context.Background(), plan))
	return plan
}

func TestGenerateSchedule_CreatesInstallments(t *testing.T) {
	uow := newMemUow()
	svc := NewScheduleService(uow, metrics.New("test"))
	plan := seedPlan(t, uow, 8, domain.FrequencyBiweekly)

	firstDue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.GenerateSchedule(context.Background(), &GenerateScheduleCommand{
		PlanID:       plan.ID,
		FirstDueDate: firstDue,
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.Len(t, result.Installments, 8)
	assert.Equal(t, firstDue, result.Installments[0].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 0, 15), result.Installments[1].DueDate)
}

func TestGenerateSchedule_Idempotent(t *testing.T) {
	uow := newMemUow()
	svc := NewScheduleService(uow, metrics.New("test"))
	plan := seedPlan(t, uow, 8, domain.FrequencyBiweekly)

	cmd := &GenerateScheduleCommand{
		PlanID:       plan.ID,
		FirstDueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	first, err := svc.GenerateSchedule(context.Background(), cmd)
	require.NoError(t, err)
	require.True(t, first.Created)

	// 第二次调用不新增分期，返回既有排期
	second, err := svc.GenerateSchedule(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Len(t, second.Installments, 8)

	count, err := uow.Schedules().CountByPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)
}

func TestGenerateSchedule_PlanNotFound(t *testing.T) {
	svc := NewScheduleService(newMemUow(), metrics.New("test"))

	_, err := svc.GenerateSchedule(context.Background(), &GenerateScheduleCommand{
		PlanID:       999,
		FirstDueDate: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestGetSchedule_EmptyIsNotFound(t *testing.T) {
	uow := newMemUow()
	svc := NewScheduleService(uow, metrics.New("test"))
	plan := seedPlan(t, uow, 8, domain.FrequencyBiweekly)

	_, err := svc.GetSchedule(context.Background(), plan.ID)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}
