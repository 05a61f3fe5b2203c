// Package messaging 提供领域事件的 Kafka 发布实现。
package messaging

import (
	"context"
	"fmt"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/mq"
)

// KafkaEventPublisher domain.EventPublisher 的 Kafka 实现。
// 按方案 ID 作为分区键，保证同一方案的事件有序。
type KafkaEventPublisher struct {
	producer      *mq.KafkaProducer
	decisionTopic string
	paymentTopic  string
}

// NewKafkaEventPublisher 创建事件发布器实例
func NewKafkaEventPublisher(producer *mq.KafkaProducer, decisionTopic, paymentTopic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:      producer,
		decisionTopic: decisionTopic,
		paymentTopic:  paymentTopic,
	}
}

// PublishDecisionEvaluated 发布决策完成事件
func (p *KafkaEventPublisher) PublishDecisionEvaluated(ctx context.Context, event domain.DecisionEvaluatedEvent) error {
	key := fmt.Sprintf("plan-%d", event.PlanID)
	return p.producer.SendMessage(ctx, p.decisionTopic, key, event)
}

// PublishPaymentReceived 发布收款入账事件
func (p *KafkaEventPublisher) PublishPaymentReceived(ctx context.Context, event domain.PaymentReceivedEvent) error {
	key := fmt.Sprintf("plan-%d", event.PlanID)
	return p.producer.SendMessage(ctx, p.paymentTopic, key, event)
}

// NoopEventPublisher 关闭事件发布时使用的空实现
type NoopEventPublisher struct{}

// PublishDecisionEvaluated 空实现
func (NoopEventPublisher) PublishDecisionEvaluated(context.Context, domain.DecisionEvaluatedEvent) error {
	return nil
}

// PublishPaymentReceived 空实现
func (NoopEventPublisher) PublishPaymentReceived(context.Context, domain.PaymentReceivedEvent) error {
	return nil
}
