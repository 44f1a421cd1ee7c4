package main

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-graph/config"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/pkg/helpers"
	"github.com/oksasatya/go-ddd-social-graph/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-social-graph/pkg/mailer/templates"
)

type outcome int

const (
	outcomeAck   outcome = iota
	outcomeRetry         // transient send failure, retried after a delay
	outcomeDrop          // malformed or unrenderable; retrying cannot help
)

type worker struct {
	cfg    *config.Config
	sender mailer.Sender
	logger *logrus.Logger
}

func (w *worker) handle(ctx context.Context, body []byte, publishedAt time.Time) outcome {
	var job mailer.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return outcomeDrop
	}
	log := w.logger.WithFields(logrus.Fields{"notification_id": job.NotificationID, "type": job.Type})

	if job.Type != string(entity.NotificationFollow) {
		log.Warn("unsupported notification type")
		return outcomeDrop
	}
	if job.To.Email == "" {
		log.Debug("recipient has no email, skipping")
		return outcomeAck
	}

	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}
	data := mailtpl.NewFollowerData(w.cfg, job, mailtpl.WithTime(publishedAt))
	subject, text, html, err := mailtpl.Render(mailtpl.NewFollower, data)
	if err != nil {
		log.WithError(err).Error("render failed")
		return outcomeDrop
	}
	email := mailer.EmailJob{To: job.To.Email, Subject: subject, Text: text, HTML: html}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, email.To, email.Subject, email.Text, email.HTML); err != nil {
		log.WithError(err).Warn("send failed, requeueing")
		return outcomeRetry
	}
	helpers.LogInfo(w.logger, "follow email sent", logrus.Fields{"notification_id": job.NotificationID, "to_user_id": job.To.ID})
	return outcomeAck
}

// attemptsHeader counts deliveries that ended in outcomeRetry.
const attemptsHeader = "x-attempts"

// nextAttempt returns the attempt number a retried message would carry and
// whether it is still within max. max counts deliveries, including the first.
func nextAttempt(headers amqp.Table, max int) (int, bool) {
	var n int
	switch v := headers[attemptsHeader].(type) {
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	}
	n++
	return n, n < max
}

// retryPublishing copies msg for the retry queue with the attempt recorded.
func retryPublishing(msg amqp.Delivery, attempt int) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[attemptsHeader] = int32(attempt)
	return amqp.Publishing{
		Headers:      headers,
		ContentType:  msg.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.Timestamp,
		Body:         msg.Body,
	}
}

// publisher is the part of *amqp.Channel retry needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// retry parks msg on the retry queue, or rejects it into the dead-letter
// queue once it has used up its attempts. ack is msg itself outside tests.
func (w *worker) retry(ctx context.Context, ch publisher, msg amqp.Delivery, ack acknowledger) {
	queue := w.cfg.RabbitMQNotificationQueue
	attempt, ok := nextAttempt(msg.Headers, w.cfg.NotificationMaxAttempts)
	log := w.logger.WithFields(logrus.Fields{"attempt": attempt, "queue": queue})
	if !ok {
		log.Error("notification out of attempts, dead-lettering")
		_ = ack.Nack(false, false)
		return
	}
	if err := ch.PublishWithContext(ctx, "", helpers.RetryQueue(queue), false, false, retryPublishing(msg, attempt)); err != nil {
		log.WithError(err).Warn("could not park message for retry, requeueing")
		_ = ack.Nack(false, true)
		return
	}
	_ = ack.Ack(false)
}
