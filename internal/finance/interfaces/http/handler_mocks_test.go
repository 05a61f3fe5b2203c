package http

import (
	"context"
	"sort"
	"time"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

func testThresholds() domain.TierThresholds {
	return domain.DefaultTierThresholds()
}

// fakeUow 内存工作单元，HTTP 层测试用
type fakeUow struct {
	plans      map[uint]*domain.FinancePlan
	nextPlanID uint
	schedules  map[uint]*domain.EMISchedule
	nextInstID uint
	payments   []*domain.PaymentRecord
	results    map[uint]*domain.DecisionResult
	autoPlans  []*domain.AutoFinancePlan
	audits     []*domain.AuditLog
}

func newHandlerTestUow() *fakeUow {
	return &fakeUow{
		plans:     make(map[uint]*domain.FinancePlan),
		schedules: make(map[uint]*domain.EMISchedule),
		results:   make(map[uint]*domain.DecisionResult),
	}
}

func (u *fakeUow) InTx(_ context.Context, fn func(repos domain.Repositories) error) error {
	return fn(u)
}

func (u *fakeUow) Plans() domain.FinancePlanRepository              { return &fakePlans{u} }
func (u *fakeUow) Schedules() domain.ScheduleRepository             { return &fakeSchedules{u} }
func (u *fakeUow) Payments() domain.PaymentRepository               { return &fakePayments{u} }
func (u *fakeUow) DecisionResults() domain.DecisionResultRepository { return &fakeResults{u} }
func (u *fakeUow) AutoPlans() domain.AutoPlanRepository             { return &fakeAutoPlans{u} }
func (u *fakeUow) Audits() domain.AuditRepository                   { return &fakeAudits{u} }

type fakePlans struct{ u *fakeUow }

func (r *fakePlans) Save(_ context.Context, plan *domain.FinancePlan) error {
	if plan.ID == 0 {
		r.u.nextPlanID++
		plan.ID = r.u.nextPlanID
	}
	r.u.plans[plan.ID] = plan
	return nil
}

func (r *fakePlans) FindByID(_ context.Context, id uint) (*domain.FinancePlan, error) {
	plan, ok := r.u.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (r *fakePlans) List(_ context.Context, offset, limit int) ([]*domain.FinancePlan, int64, error) {
	var plans []*domain.FinancePlan
	for _, p := range r.u.plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, int64(len(plans)), nil
}

type fakeSchedules struct{ u *fakeUow }

func (r *fakeSchedules) CreateBatch(_ context.Context, installments []*domain.EMISchedule) error {
	for _, inst := range installments {
		if inst.ID == 0 {
			r.u.nextInstID++
			inst.ID = r.u.nextInstID
		}
		r.u.schedules[inst.ID] = inst
	}
	return nil
}

func (r *fakeSchedules) FindByPlan(_ context.Context, planID uint) ([]*domain.EMISchedule, error) {
	var installments []*domain.EMISchedule
	for _, inst := range r.u.schedules {
		if inst.PlanID == planID {
			installments = append(installments, inst)
		}
	}
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].InstallmentNumber < installments[j].InstallmentNumber
	})
	return installments, nil
}

func (r *fakeSchedules) FindByIDForUpdate(_ context.Context, id uint) (*domain.EMISchedule, error) {
	inst, ok := r.u.schedules[id]
	if !ok {
		return nil, domain.ErrInstallmentNotFound
	}
	return inst, nil
}

func (r *fakeSchedules) Update(_ context.Context, installment *domain.EMISchedule) error {
	r.u.schedules[installment.ID] = installment
	return nil
}

func (r *fakeSchedules) CountByPlan(_ context.Context, planID uint) (int64, error) {
	var count int64
	for _, inst := range r.u.schedules {
		if inst.PlanID == planID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSchedules) DeleteUnpaidAfter(_ context.Context, planID uint, number int) ([]int, error) {
	var numbers []int
	for id, inst := range r.u.schedules {
		if inst.PlanID == planID && inst.InstallmentNumber > number && inst.Status != domain.InstallmentPaid {
			numbers = append(numbers, inst.InstallmentNumber)
			delete(r.u.schedules, id)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}

type fakePayments struct{ u *fakeUow }

func (r *fakePayments) Create(_ context.Context, payment *domain.PaymentRecord) error {
	payment.ID = uint(len(r.u.payments) + 1)
	r.u.payments = append(r.u.payments, payment)
	return nil
}

func (r *fakePayments) List(_ context.Context, offset, limit int) ([]*domain.PaymentRecord, int64, error) {
	return r.u.payments, int64(len(r.u.payments)), nil
}

type fakeResults struct{ u *fakeUow }

func (r *fakeResults) Save(_ context.Context, result *domain.DecisionResult) error {
	if result.ID == 0 {
		result.ID = uint(len(r.u.results) + 1)
	}
	r.u.results[result.PlanID] = result
	return nil
}

func (r *fakeResults) FindByPlan(_ context.Context, planID uint) (*domain.DecisionResult, error) {
	result, ok := r.u.results[planID]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return result, nil
}

type fakeAutoPlans struct{ u *fakeUow }

func (r *fakeAutoPlans) Save(_ context.Context, plan *domain.AutoFinancePlan) error {
	if plan.ID == 0 {
		plan.ID = uint(len(r.u.autoPlans) + 1)
	}
	r.u.autoPlans = append(r.u.autoPlans, plan)
	return nil
}

func (r *fakeAutoPlans) FindLatestByCustomer(_ context.Context, customerID uint) (*domain.AutoFinancePlan, error) {
	for i := len(r.u.autoPlans) - 1; i >= 0; i-- {
		if r.u.autoPlans[i].CustomerID == customerID {
			return r.u.autoPlans[i], nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

type fakeAudits struct{ u *fakeUow }

func (r *fakeAudits) Append(_ context.Context, entry *domain.AuditLog) error {
	r.u.audits = append(r.u.audits, entry)
	return nil
}

// noopPublisher 丢弃事件
type noopPublisher struct{}

func (noopPublisher) PublishDecisionEvaluated(context.Context, domain.DecisionEvaluatedEvent) error {
	return nil
}

func (noopPublisher) PublishPaymentReceived(context.Context, domain.PaymentReceivedEvent) error {
	return nil
}

// stubAnalytics 返回固定报表
type stubAnalytics struct{}

func (stubAnalytics) Overview(context.Context) (*domain.OverviewReport, error) {
	return &domain.OverviewReport{TotalFinancePlans: 5}, nil
}

func (stubAnalytics) RiskTiers(context.Context) ([]*domain.TierReport, error) {
	return nil, nil
}

func (stubAnalytics) Collections(context.Context) (*domain.CollectionsReport, error) {
	return &domain.CollectionsReport{}, nil
}

func (stubAnalytics) Overdue(context.Context, time.Time) (*domain.OverdueReport, error) {
	return &domain.OverdueReport{}, nil
}
