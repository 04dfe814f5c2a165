package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tavernshift/backend/internal/domain"
)

// Channel 是 Publisher 用到的 *amqp.Channel 的子集
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher 将通知逐条投递到 RabbitMQ 队列，由 notify worker 负责实际发送
type Publisher struct {
	ch    Channel
	queue string
}

func NewPublisher(ch Channel, queue string) *Publisher {
	return &Publisher{
		ch:    ch,
		queue: queue,
	}
}

func (p *Publisher) Send(ctx context.Context, notification domain.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// SendBulk 投递一批通知。单条失败不会中断其余通知的投递，所有失败会合并后返回
func (p *Publisher) SendBulk(ctx context.Context, notifications []domain.Notification) error {
	var errs []error
	for _, notification := range notifications {
		if err := p.Send(ctx, notification); err != nil {
			slog.Error("通知投递到队列失败", "type", notification.Type, "target", notification.Target, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", notification.Target, err))
		}
	}

	return errors.Join(errs...)
}
