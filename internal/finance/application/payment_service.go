package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
)

// PaymentService 收款台账。付款入账与逾期重排在同一个事务内完成：
// 分期以行锁读取，未付分期的删除与替代分期的生成要么全部成功要么全部回滚。
type PaymentService struct {
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewPaymentService 创建收款服务实例
func NewPaymentService(uow domain.UnitOfWork, publisher domain.EventPublisher, m *metrics.Metrics) *PaymentService {
	return &PaymentService{uow: uow, publisher: publisher, metrics: m}
}

// ApplyPayment 将付款计入分期。已结清的分期返回 ErrAlreadyPaid，
// 分期不存在返回 ErrInstallmentNotFound。逾期结清触发未来未付分期的
// 删除重排：从付款日 +15 天起按 15 天间隔重新生成，金额与期号不变。
func (s *PaymentService) ApplyPayment(ctx context.Context, cmd *PaymentCommand) (*PaymentResult, error) {
	paymentDate := cmd.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var result PaymentResult

	err := s.uow.InTx(ctx, func(repos domain.Repositories) error {
		installment, err := repos.Schedules().FindByIDForUpdate(ctx, cmd.InstallmentID)
		if err != nil {
			return err
		}

		if err := installment.ApplyPayment(cmd.Amount, paymentDate); err != nil {
			return err
		}
		if err := repos.Schedules().Update(ctx, installment); err != nil {
			return err
		}

		payment := &domain.PaymentRecord{
			PlanID:               installment.PlanID,
			InstallmentID:        &installment.ID,
			PaymentType:          domain.PaymentTypeEMI,
			PaymentMethod:        cmd.Method,
			PaymentAmount:        cmd.Amount,
			PaymentDate:          paymentDate,
			PaymentStatus:        domain.PaymentStatusCompleted,
			ReceiptNumber:        cmd.ReceiptNumber,
			TransactionReference: cmd.TransactionReference,
			Notes:                cmd.Notes,
		}
		if payment.ReceiptNumber == "" {
			payment.ReceiptNumber = newReceiptNumber()
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}

		result = PaymentResult{Installment: installment, Payment: payment}

		// 重排只在分期逾期结清时触发：删除期号更大且未结清的分期，
		// 已结清的未来分期保留
		if installment.Status == domain.InstallmentPaid && installment.PaidLate() {
			numbers, err := repos.Schedules().DeleteUnpaidAfter(ctx, installment.PlanID, installment.InstallmentNumber)
			if err != nil {
				return err
			}
			if len(numbers) > 0 {
				regenerated := domain.RegenerateAfterLatePayment(
					installment.PlanID, numbers, installment.InstallmentAmount, paymentDate)
				if err := repos.Schedules().CreateBatch(ctx, regenerated); err != nil {
					return err
				}
				result.Rescheduled = true
				result.Regenerated = regenerated

				if err := repos.Audits().Append(ctx, &domain.AuditLog{
					Action:      domain.AuditPlanRescheduled,
					PlanID:      installment.PlanID,
					Description: "future installments rescheduled after late payment",
					Metadata: map[string]any{
						"paid_installment": installment.InstallmentNumber,
						"regenerated":      numbers,
						"payment_date":     paymentDate.Format("2006-01-02"),
					},
				}); err != nil {
					return err
				}
			}
		}

		return repos.Audits().Append(ctx, &domain.AuditLog{
			Action:      domain.AuditPaymentReceived,
			PlanID:      installment.PlanID,
			Description: "installment payment received",
			Metadata: map[string]any{
				"installment_id": installment.ID,
				"amount":         cmd.Amount.String(),
				"method":         cmd.Method,
				"status":         installment.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentsTotal.Inc()
	if result.Rescheduled {
		s.metrics.ReschedulesTotal.Inc()
	}

	pubErr := s.publisher.PublishPaymentReceived(ctx, domain.PaymentReceivedEvent{
		PlanID:            result.Installment.PlanID,
		InstallmentID:     result.Installment.ID,
		InstallmentNumber: result.Installment.InstallmentNumber,
		Amount:            cmd.Amount,
		Method:            cmd.Method,
		Status:            result.Installment.Status,
		Rescheduled:       result.Rescheduled,
		PaidAt:            paymentDate,
	})
	if pubErr != nil {
		logger.WithContext(ctx).Warn("Failed to publish payment event",
			"error", pubErr, "installment_id", result.Installment.ID)
	}

	return &result, nil
}

// ListPayments 分页查询支付流水
func (s *PaymentService) ListPayments(ctx context.Context, offset, limit int) ([]*domain.PaymentRecord, int64, error) {
	return s.uow.Payments().List(ctx, offset, limit)
}

// newReceiptNumber 生成收据号
func newReceiptNumber() string {
	return fmt.Sprintf("RCP-%s", strings.ToUpper(uuid.NewString()[:8]))
}
