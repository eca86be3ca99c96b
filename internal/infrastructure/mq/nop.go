package mq

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Nop stands in for RabbitMQ when no broker is configured; events are only logged.
type Nop struct {
	log *zap.Logger
}

func NewNop(logger *zap.Logger) *Nop { return &Nop{log: logger} }

func (n *Nop) Connect(context.Context, string) error { return nil }
func (n *Nop) Init() error { return nil }

func (n *Nop) Publish(e Event) {
	n.log.Debug("event", zap.String("type", e.Type), zap.String("user_id", e.UserID))
}

func (n *Nop) PublisherWorker(ctx context.Context) { <-ctx.Done() }

func (n *Nop) GetConn() *amqp091.Connection { return nil }
func (n *Nop) Close() error { return nil }
