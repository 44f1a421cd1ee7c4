package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher wraps an AMQP channel and queue for publishing messages.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func NewRabbitPublisher(url, queue string, retryDelay time.Duration) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := DeclareDurableQueue(ch, queue, retryDelay); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue}, nil
}

// RetryQueue holds messages waiting out their retry delay before they are
// dead-lettered back onto queue.
func RetryQueue(queue string) string { return queue + ".retry" }

// DeadQueue collects messages that were rejected or ran out of attempts.
func DeadQueue(queue string) string { return queue + ".dead" }

// QueueArgs are the arguments queue is declared with. Rejected messages go
// to DeadQueue(queue).
func QueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadQueue(queue),
	}
}

// RetryQueueArgs expire messages after retryDelay onto queue.
func RetryQueueArgs(queue string, retryDelay time.Duration) amqp.Table {
	return amqp.Table{
		"x-message-ttl":             retryDelay.Milliseconds(),
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue,
	}
}

// DeclareDurableQueue is shared by the publisher and the worker so both
// agree on queue arguments. It also declares the retry and dead-letter
// queues next to queue.
func DeclareDurableQueue(ch *amqp.Channel, queue string, retryDelay time.Duration) (amqp.Queue, error) {
	if _, err := ch.QueueDeclare(DeadQueue(queue), true, false, false, false, nil); err != nil {
		return amqp.Queue{}, err
	}
	if _, err := ch.QueueDeclare(RetryQueue(queue), true, false, false, false, RetryQueueArgs(queue, retryDelay)); err != nil {
		return amqp.Queue{}, err
	}
	return ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		QueueArgs(queue),
	)
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes a JSON-encoded message to the default queue.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}
