package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wyfcoding/pkg/messagequeue"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// KafkaEventPublisher 基于 Kafka 的事件发布器。
// 定价结果不落库, 没有 Outbox 表可挂, PublishInTx 退化为即时发布。
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *kafka.Producer) messagequeue.EventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// Publish 序列化事件并按事件类型投递到对应 topic, key 用于分区路由
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for topic %s: %w", topic, err)
	}
	return p.producer.PublishToTopic(ctx, topic, []byte(key), payload)
}

// PublishInTx 事务内发布。本服务不持久化计算结果, 直接走即时发布
func (p *KafkaEventPublisher) PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error {
	return p.Publish(ctx, topic, key, event)
}
