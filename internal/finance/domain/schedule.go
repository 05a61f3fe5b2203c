package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus 分期状态机：
// UPCOMING → DUE（到期日当天）→ PAID | PARTIALLY_PAID | OVERDUE；
// OVERDUE → PAID（逾期始终可以通过付款恢复，没有永久失败态）。
type InstallmentStatus string

const (
	InstallmentUpcoming      InstallmentStatus = "UPCOMING"
	InstallmentDue           InstallmentStatus = "DUE"
	InstallmentPaid          InstallmentStatus = "PAID"
	InstallmentOverdue       InstallmentStatus = "OVERDUE"
	InstallmentPartiallyPaid InstallmentStatus = "PARTIALLY_PAID"
)

// RescheduleIntervalDays 逾期重排固定使用 15 天间隔。
// 原始业务规则即便对 30 天频率的方案也使用 15 天重排，疑似产品侧未澄清的
// 历史行为，按现状保留。
const RescheduleIntervalDays = 15

// EMISchedule 分期实体，每个方案按期数唯一
type EMISchedule struct {
	ID     uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlanID uint `gorm:"column:plan_id;uniqueIndex:uniq_plan_installment;index;not null" json:"plan_id"`

	InstallmentNumber int             `gorm:"column:installment_number;uniqueIndex:uniq_plan_installment;not null" json:"installment_number"`
	DueDate           time.Time       `gorm:"column:due_date;type:date;index;not null" json:"due_date"`
	InstallmentAmount decimal.Decimal `gorm:"column:installment_amount;type:decimal(10,2);not null" json:"installment_amount"`

	AmountPaid       decimal.Decimal `gorm:"column:amount_paid;type:decimal(10,2);not null;default:0" json:"amount_paid"`
	BalanceRemaining decimal.Decimal `gorm:"column:balance_remaining;type:decimal(10,2);not null" json:"balance_remaining"`

	Status      InstallmentStatus `gorm:"column:status;type:varchar(20);index;not null;default:UPCOMING" json:"status"`
	PaidDate    *time.Time        `gorm:"column:paid_date;type:date" json:"paid_date"`
	DaysOverdue int               `gorm:"column:days_overdue;not null;default:0" json:"days_overdue"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName gorm 表名
func (EMISchedule) TableName() string {
	return "emi_schedules"
}

// UpdateStatus 根据已付金额与当前日期推进状态机
func (s *EMISchedule) UpdateStatus(today time.Time) InstallmentStatus {
	today = truncateToDate(today)
	due := truncateToDate(s.DueDate)

	switch {
	case s.AmountPaid.GreaterThanOrEqual(s.InstallmentAmount):
		s.Status = InstallmentPaid
		s.BalanceRemaining = decimal.Zero
	case s.AmountPaid.IsPositive():
		s.Status = InstallmentPartiallyPaid
		s.BalanceRemaining = s.InstallmentAmount.Sub(s.AmountPaid)
	case today.After(due):
		s.Status = InstallmentOverdue
		// 两边都已归一化为 UTC 零点，相减恰好是整数天
		s.DaysOverdue = int(today.Sub(due).Hours() / 24)
		s.BalanceRemaining = s.InstallmentAmount
	case today.Equal(due):
		s.Status = InstallmentDue
		s.BalanceRemaining = s.InstallmentAmount
	default:
		s.Status = InstallmentUpcoming
		s.BalanceRemaining = s.InstallmentAmount
	}

	return s.Status
}

// ApplyPayment 将付款计入分期：已结清的分期拒绝重复支付，
// 入账后推进状态，结清时记录付款日期。
func (s *EMISchedule) ApplyPayment(amount decimal.Decimal, paymentDate time.Time) error {
	if s.Status == InstallmentPaid {
		return ErrAlreadyPaid
	}
	if !amount.IsPositive() {
		return ErrInvalidPayment
	}

	s.AmountPaid = s.AmountPaid.Add(amount)
	s.UpdateStatus(paymentDate)

	if s.Status == InstallmentPaid {
		d := truncateToDate(paymentDate)
		s.PaidDate = &d
	}

	return nil
}

// PaidLate 分期是否在到期日之后才结清
func (s *EMISchedule) PaidLate() bool {
	return s.PaidDate != nil && truncateToDate(*s.PaidDate).After(truncateToDate(s.DueDate))
}

// GenerateSchedule 生成完整分期计划。30 天频率使用日历月步进避免漂移，
// 15 天频率使用固定天数步进。
func GenerateSchedule(plan *FinancePlan, firstDueDate time.Time) []*EMISchedule {
	first := truncateToDate(firstDueDate)
	installments := make([]*EMISchedule, 0, plan.SelectedTerm)

	for i := 1; i <= plan.SelectedTerm; i++ {
		var due time.Time
		if plan.InstallmentFrequencyDays == FrequencyBiweekly {
			due = first.AddDate(0, 0, (i-1)*FrequencyBiweekly)
		} else {
			due = first.AddDate(0, i-1, 0)
		}

		installments = append(installments, &EMISchedule{
			PlanID:            plan.ID,
			InstallmentNumber: i,
			DueDate:           due,
			InstallmentAmount: plan.MonthlyInstallment,
			AmountPaid:        decimal.Zero,
			BalanceRemaining:  plan.MonthlyInstallment,
			Status:            InstallmentUpcoming,
		})
	}

	return installments
}

// RegenerateAfterLatePayment 为逾期付款后被删除的未付分期生成替代分期。
// 从实际付款日 +15 天起、按固定 15 天间隔排布，金额与期号保持不变。
func RegenerateAfterLatePayment(planID uint, numbers []int, amount decimal.Decimal, paymentDate time.Time) []*EMISchedule {
	start := truncateToDate(paymentDate).AddDate(0, 0, RescheduleIntervalDays)
	installments := make([]*EMISchedule, 0, len(numbers))

	for i, n := range numbers {
		installments = append(installments, &EMISchedule{
			PlanID:            planID,
			InstallmentNumber: n,
			DueDate:           start.AddDate(0, 0, i*RescheduleIntervalDays),
			InstallmentAmount: amount,
			AmountPaid:        decimal.Zero,
			BalanceRemaining:  amount,
			Status:            InstallmentUpcoming,
		})
	}

	return installments
}

// truncateToDate 归一化到 UTC 日历日。到期日与付款日可能带着不同时区，
// 状态机只关心日历天数，按时刻相减会被时区偏移和夏令时切换干扰。
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
