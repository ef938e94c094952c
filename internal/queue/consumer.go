package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ArchiveQueueName is the durable queue bound to every routing key of the
// notification exchange.
const ArchiveQueueName = "campus.notifications.archive"

// Sink stores one consumed notification.
type Sink interface {
	Archive(ctx context.Context, ev NotificationEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev NotificationEvent) error

func (f SinkFunc) Archive(ctx context.Context, ev NotificationEvent) error { return f(ctx, ev) }

// MultiSink archives into every sink in order and stops at the first error.
type MultiSink []Sink

func (m MultiSink) Archive(ctx context.Context, ev NotificationEvent) error {
	for _, s := range m {
		if err := s.Archive(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// FileSink appends LogLine output to a file, creating its directory on
// first use.
type FileSink struct {
	Path string
	mu   sync.Mutex
}

func NewFileSink(path string) *FileSink { return &FileSink{Path: path} }

func (s *FileSink) Archive(_ context.Context, ev NotificationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(ev.LogLine()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// LogStore is the subset of the MySQL notification log used by StoreSink.
type LogStore interface {
	Insert(ctx context.Context, event string, payload []byte, publishedAt time.Time) (int64, error)
}

// StoreSink archives into a LogStore.
func StoreSink(store LogStore) Sink {
	return SinkFunc(func(ctx context.Context, ev NotificationEvent) error {
		_, err := store.Insert(ctx, ev.Event, ev.Payload, ev.PublishedAt)
		return err
	})
}

// ArchiveConsumer drains the notification exchange into a Sink.
type ArchiveConsumer struct {
	URL      string
	Exchange string
	Sink     Sink
	Log      logrus.FieldLogger
}

// Run connects to RabbitMQ, binds the archive queue to the exchange and
// consumes until ctx is cancelled. Lost connections are retried with
// exponential backoff capped at 30s. Messages that cannot be decoded or
// archived are rejected without requeue so one bad message cannot spin.
func (a *ArchiveConsumer) Run(ctx context.Context) error {
	log := a.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "notification-archive")

	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			log.WithError(err).Warnf("dial broker failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second

		err = a.consume(ctx, conn, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *ArchiveConsumer) consume(ctx context.Context, conn *amqp.Connection, log logrus.FieldLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("set QoS failed")
	}
	if err := ch.ExchangeDeclare(a.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(ArchiveQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(ArchiveQueueName, "#", a.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	msgs, err := ch.Consume(ArchiveQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := a.handle(ctx, d.Body); err != nil {
				log.WithError(err).Warn("archive message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *ArchiveConsumer) handle(ctx context.Context, body []byte) error {
	ev, err := Decode(body)
	if err != nil {
		return err
	}
	return a.Sink.Archive(ctx, ev)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
