package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"file-share-api/internal/infrastructure/mq"
)

// EventPublisher never blocks the caller.
type EventPublisher interface {
	Publish(e mq.Event)
}

type RabbitMQ interface {
	EventPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
	Close() error
}
