// Package service holds the background workers of the hub: the broker
// mirrors for realtime notifications and the kitchen status simulator.
package service

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/metrics"
	"github.com/iliyamo/smart-campus-hub/internal/queue"
)

type outbound struct {
	routingKey string
	body       []byte
	at         time.Time
}

// RabbitPublisher mirrors notifications to a RabbitMQ topic exchange, using
// the event name as routing key. Publish only enqueues; a single worker
// started by Run owns the connection and reconnects with backoff. When the
// queue is full new notifications are dropped.
type RabbitPublisher struct {
	url      string
	exchange string
	queue    chan outbound
	log      logrus.FieldLogger
	now      func() time.Time

	closeOnce sync.Once
	closed    chan struct{}
}

func NewRabbitPublisher(url, exchange string, buffer int, log logrus.FieldLogger) *RabbitPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RabbitPublisher{
		url:      url,
		exchange: exchange,
		queue:    make(chan outbound, buffer),
		log:      log.WithField("component", "rabbitmq-mirror"),
		now:      time.Now,
		closed:   make(chan struct{}),
	}
}

// Publish implements notify.Publisher.
func (p *RabbitPublisher) Publish(event string, payload any) {
	at := p.now()
	body, err := queue.Encode(event, payload, at)
	if err != nil {
		metrics.BrokerPublishFailures.WithLabelValues("rabbitmq", "encode").Inc()
		p.log.WithError(err).WithField("event", event).Error("encode notification")
		return
	}
	select {
	case <-p.closed:
		return
	default:
	}
	select {
	case p.queue <- outbound{routingKey: event, body: body, at: at}:
	default:
		metrics.BrokerPublishFailures.WithLabelValues("rabbitmq", "buffer_full").Inc()
		p.log.WithField("event", event).Warn("mirror buffer full, notification dropped")
	}
}

// Pending reports how many notifications wait for the worker.
func (p *RabbitPublisher) Pending() int { return len(p.queue) }

// Close stops accepting notifications. Run returns once ctx is done.
func (p *RabbitPublisher) Close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

// Run drains the queue into the exchange until ctx is cancelled.
func (p *RabbitPublisher) Run(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			p.log.WithError(err).Warnf("dial failed; retrying in %s", backoff)
			if !wait(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second
		if err := p.drain(ctx, conn); err != nil && ctx.Err() == nil {
			p.log.WithError(err).Warn("publish loop ended; reconnecting")
		}
		_ = conn.Close()
	}
}

func (p *RabbitPublisher) drain(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return err
	}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			return amqpErr
		case m := <-p.queue:
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := ch.PublishWithContext(pctx, p.exchange, m.routingKey, false, false, amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    m.at.UTC(),
				Type:         m.routingKey,
				Body:         m.body,
			})
			cancel()
			if err != nil {
				metrics.BrokerPublishFailures.WithLabelValues("rabbitmq", "publish").Inc()
				return err
			}
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
