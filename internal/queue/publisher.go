package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher отправляет события бронирования в RabbitMQ.
// Ошибки публикации логируются и возвращаются вызывающему,
// который волен их игнорировать - основной поток запроса не прерывается.
type Publisher struct {
	url    string
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// Publish отправляет событие в указанную очередь. Сообщения персистентные,
// очередь объявляется идемпотентно при каждой публикации.
func (p *Publisher) Publish(ctx context.Context, queueName string, event BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("rabbitmq channel open failed", zap.Error(err))
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		p.logger.Warn("rabbitmq queue declare failed", zap.Error(err))
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = имя очереди
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Warn("rabbitmq publish failed", zap.Error(err))
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}
