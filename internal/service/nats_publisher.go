package service

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/metrics"
	"github.com/iliyamo/smart-campus-hub/internal/queue"
)

// NATSSubjectPrefix is prepended to the event name to form the subject.
const NATSSubjectPrefix = "campus."

// NATSPublisher mirrors notifications to NATS core subjects. The client
// library buffers outgoing messages and reconnects on its own.
type NATSPublisher struct {
	conn *nats.Conn
	log  logrus.FieldLogger
}

func NewNATSPublisher(url string, log logrus.FieldLogger) (*NATSPublisher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "nats-mirror")
	conn, err := nats.Connect(url,
		nats.Name("smart-campus-hub"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, log: log}, nil
}

// Publish implements notify.Publisher.
func (p *NATSPublisher) Publish(event string, payload any) {
	body, err := queue.Encode(event, payload, time.Now())
	if err != nil {
		metrics.BrokerPublishFailures.WithLabelValues("nats", "encode").Inc()
		p.log.WithError(err).WithField("event", event).Error("encode notification")
		return
	}
	if err := p.conn.Publish(NATSSubjectPrefix+event, body); err != nil {
		metrics.BrokerPublishFailures.WithLabelValues("nats", "publish").Inc()
		p.log.WithError(err).WithField("event", event).Warn("publish failed")
	}
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
