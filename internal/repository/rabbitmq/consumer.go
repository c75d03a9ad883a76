package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/domain/usecase"
)

type RunProcessor interface {
	ProcessRun(ctx context.Context, msg *entity.RunCreatedMessage) error
}

type RunConsumer struct {
	channel     *amqp.Channel
	exchange    string
	routingKey  string
	queue       string
	Processor   RunProcessor
	prefetchCnt int
}

func NewRunConsumer(conn *amqp.Connection, exchange, routingKey, queue string, p RunProcessor) (*RunConsumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	consumer := &RunConsumer{
		channel:     ch,
		exchange:    exchange,
		routingKey:  routingKey,
		queue:       queue,
		Processor:   p,
		prefetchCnt: 1,
	}

	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ch.QueueBind(
		queue,
		routingKey,
		exchange,
		false,
		nil,
	); err != nil {
		return nil, err
	}

	if err := ch.Qos(consumer.prefetchCnt, 0, false); err != nil {
		return nil, err
	}

	return consumer, nil
}

func (c *RunConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("RunConsumer shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				log.Println("RabbitMQ channel closed")
				return nil
			}

			var run entity.RunCreatedMessage
			if err := json.Unmarshal(msg.Body, &run); err != nil {
				log.WithError(err).Warn("failed to unmarshal run message")
				_ = msg.Nack(false, false)
				continue
			}

			go c.handle(ctx, run, msg)
		}
	}
}

func (c *RunConsumer) handle(ctx context.Context, run entity.RunCreatedMessage, msg amqp.Delivery) {
	err := c.Processor.ProcessRun(ctx, &run)
	if err == nil {
		_ = msg.Ack(false)
		return
	}

	logger := log.WithField("run_id", run.RunID).WithError(err)
	if errors.Is(err, usecase.ErrUnprocessable) {
		logger.Warn("dropping run that cannot be analysed")
		_ = msg.Ack(false)
		return
	}

	logger.Error("failed to process run, requeueing")
	_ = msg.Nack(false, true)
}
