package application

import (
	"context"
	"sort"
	"time"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
)

// memStore 内存仓储，测试用
type memStore struct {
	plans      map[uint]*domain.FinancePlan
	nextPlanID uint
	schedules  map[uint]*domain.EMISchedule
	nextInstID uint
	payments   []*domain.PaymentRecord
	results    map[uint]*domain.DecisionResult
	nextResult uint
	autoPlans  []*domain.AutoFinancePlan
	nextAutoID uint
	audits     []*domain.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		plans:     make(map[uint]*domain.FinancePlan),
		schedules: make(map[uint]*domain.EMISchedule),
		results:   make(map[uint]*domain.DecisionResult),
	}
}

// memUow 内存工作单元，事务语义在测试里退化为直接执行
type memUow struct {
	store *memStore
}

func newMemUow() *memUow {
	return &memUow{store: newMemStore()}
}

func (u *memUow) InTx(_ context.Context, fn func(repos domain.Repositories) error) error {
	return fn(u)
}

func (u *memUow) Plans() domain.FinancePlanRepository  { return &memPlans{s: u.store} }
func (u *memUow) Schedules() domain.ScheduleRepository { return &memSchedules{s: u.store} }
func (u *memUow) Payments() domain.PaymentRepository   { return &memPayments{s: u.store} }
func (u *memUow) DecisionResults() domain.DecisionResultRepository {
	return &memResults{s: u.store}
}
func (u *memUow) AutoPlans() domain.AutoPlanRepository { return &memAutoPlans{s: u.store} }
func (u *memUow) Audits() domain.AuditRepository       { return &memAudits{s: u.store} }

type memPlans struct{ s *memStore }

func (r *memPlans) Save(_ context.Context, plan *domain.FinancePlan) error {
	if plan.ID == 0 {
		r.s.nextPlanID++
		plan.ID = r.s.nextPlanID
	}
	r.s.plans[plan.ID] = plan
	return nil
}

func (r *memPlans) FindByID(_ context.Context, id uint) (*domain.FinancePlan, error) {
	plan, ok := r.s.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (r *memPlans) List(_ context.Context, offset, limit int) ([]*domain.FinancePlan, int64, error) {
	var plans []*domain.FinancePlan
	for _, p := range r.s.plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, int64(len(plans)), nil
}

type memSchedules struct{ s *memStore }

func (r *memSchedules) CreateBatch(_ context.Context, installments []*domain.EMISchedule) error {
	for _, inst := range installments {
		if inst.ID == 0 {
			r.s.nextInstID++
			inst.ID = r.s.nextInstID
		}
		r.s.schedules[inst.ID] = inst
	}
	return nil
}

func (r *memSchedules) FindByPlan(_ context.Context, planID uint) ([]*domain.EMISchedule, error) {
	var installments []*domain.EMISchedule
	for _, inst := range r.s.schedules {
		if inst.PlanID == planID {
			installments = append(installments, inst)
		}
	}
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].InstallmentNumber < installments[j].InstallmentNumber
	})
	return installments, nil
}

func (r *memSchedules) FindByIDForUpdate(_ context.Context, id uint) (*domain.EMISchedule, error) {
	inst, ok := r.s.schedules[id]
	if !ok {
		return nil, domain.ErrInstallmentNotFound
	}
	return inst, nil
}

func (r *memSchedules) Update(_ context.Context, installment *domain.EMISchedule) error {
	r.s.schedules[installment.ID] = installment
	return nil
}

func (r *memSchedules) CountByPlan(_ context.Context, planID uint) (int64, error) {
	var count int64
	for _, inst := range r.s.schedules {
		if inst.PlanID == planID {
			count++
		}
	}
	return count, nil
}

func (r *memSchedules) DeleteUnpaidAfter(_ context.Context, planID uint, number int) ([]int, error) {
	var numbers []int
	for id, inst := range r.s.schedules {
		if inst.PlanID == planID && inst.InstallmentNumber > number && inst.Status != domain.InstallmentPaid {
			numbers = append(numbers, inst.InstallmentNumber)
			delete(r.s.schedules, id)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}

type memPayments struct{ s *memStore }

func (r *memPayments) Create(_ context.Context, payment *domain.PaymentRecord) error {
	payment.ID = uint(len(r.s.payments) + 1)
	r.s.payments = append(r.s.payments, payment)
	return nil
}

func (r *memPayments) List(_ context.Context, offset, limit int) ([]*domain.PaymentRecord, int64, error) {
	return r.s.payments, int64(len(r.s.payments)), nil
}

type memResults struct{ s *memStore }

func (r *memResults) Save(_ context.Context, result *domain.DecisionResult) error {
	if result.ID == 0 {
		r.s.nextResult++
		result.ID = r.s.nextResult
	}
	r.s.results[result.PlanID] = result
	return nil
}

func (r *memResults) FindByPlan(_ context.Context, planID uint) (*domain.DecisionResult, error) {
	result, ok := r.s.results[planID]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return result, nil
}

type memAutoPlans struct{ s *memStore }

func (r *memAutoPlans) Save(_ context.Context, plan *domain.AutoFinancePlan) error {
	if plan.ID == 0 {
		r.s.nextAutoID++
		plan.ID = r.s.nextAutoID
	}
	plan.CreatedAt = time.Now()
	r.s.autoPlans = append(r.s.autoPlans, plan)
	return nil
}

func (r *memAutoPlans) FindLatestByCustomer(_ context.Context, customerID uint) (*domain.AutoFinancePlan, error) {
	for i := len(r.s.autoPlans) - 1; i >= 0; i-- {
		if r.s.autoPlans[i].CustomerID == customerID {
			return r.s.autoPlans[i], nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

type memAudits struct{ s *memStore }

func (r *memAudits) Append(_ context.Context, entry *domain.AuditLog) error {
	entry.CreatedAt = time.Now()
	r.s.audits = append(r.s.audits, entry)
	return nil
}

// capturingPublisher 记录发布的事件
type capturingPublisher struct {
	decisions []domain.DecisionEvaluatedEvent
	payments  []domain.PaymentReceivedEvent
}

func (p *capturingPublisher) PublishDecisionEvaluated(_ context.Context, event domain.DecisionEvaluatedEvent) error {
	p.decisions = append(p.decisions, event)
	return nil
}

func (p *capturingPublisher) PublishPaymentReceived(_ context.Context, event domain.PaymentReceivedEvent) error {
	p.payments = append(p.payments, event)
	return nil
}
