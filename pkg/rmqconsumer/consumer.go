package rmqconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-share-api/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// RoutingKeyOrphaned is the only key the orphan queue is bound to.
const RoutingKeyOrphaned = "file.orphaned"

// Remover deletes bytes by storage-relative path.
type Remover interface {
	Remove(rel string) error
	RemoveDirIfEmpty(relDir string) (bool, error)
}

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	remover    Remover
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

type orphanEvent struct {
	Type    string `json:"event_type"`
	Payload struct {
		Path string `json:"path"`
	} `json:"payload"`
}

var errBadEvent = errors.New("malformed orphan event")

func New(cfg config.MQ, logger *zap.Logger, remover Remover) *Consumer {
	return &Consumer{
		cfg:     cfg,
		log:     logger,
		remover: remover,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.Dial(dsn)
	if err != nil {
		c.conn = nil
		return fmt.Errorf("amqp dial: %w", err)
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		c.conn, c.chConsume = nil, nil
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := c.chConsume.QueueBind(
		c.cfg.QueueName,
		RoutingKeyOrphaned,
		c.cfg.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue bind %s: %w", RoutingKeyOrphaned, err)
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				// alert
				c.log.Error("mq read message error", zap.Error(err))
			}
		case <-ctx.Done():
			_ = c.chConsume.Close()
			return
		}
	}
}

func (c *Consumer) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// delivery removes the orphaned bytes named by msg. A failed removal is
// requeued once; on redelivery it is logged and dropped.
func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var ev orphanEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil || ev.Payload.Path == "" {
		_ = msg.Reject(false)
		if err == nil {
			err = errBadEvent
		}
		return fmt.Errorf("decode %q: %w", msg.MessageId, err)
	}
	p := ev.Payload.Path

	if err := c.remover.Remove(p); err != nil {
		if msg.Redelivered {
			c.log.Error("orphan removal failed, dropping", zap.String("path", p), zap.Error(err))
			return msg.Nack(false, false)
		}
		c.log.Warn("orphan removal failed, requeueing", zap.String("path", p), zap.Error(err))
		return msg.Nack(false, true)
	}

	if _, err := c.remover.RemoveDirIfEmpty(path.Dir(p)); err != nil {
		c.log.Warn("orphan dir cleanup failed", zap.String("path", p), zap.Error(err))
	}

	c.log.Info("orphan removed", zap.String("path", p))

	return msg.Ack(false)
}
