package repository

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/metrics"
	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/notify"
)

// Registry is the in-memory store for every campus resource kind. It is
// the only writer of that state. Each operation runs under one mutex so
// it is atomic from the caller's point of view; notifications are
// published after the lock is released, using copies of the records.
type Registry struct {
	mu sync.Mutex

	menu      []model.MenuItem
	orders    []*model.Order
	kitchen   model.KitchenStatus
	issues    []*model.Issue // newest first
	items     []*model.LostFoundItem
	events    []*model.Event
	routes    []model.TransportRoute
	buildings []model.Building

	pub         notify.Publisher
	log         logrus.FieldLogger
	now         func() time.Time
	newID       func() string
	orderNumber func() string
}

// Option customises a Registry.
type Option func(*Registry)

// WithPublisher sets where change notifications go. The default drops them.
func WithPublisher(p notify.Publisher) Option {
	return func(r *Registry) { r.pub = p }
}

// WithLogger sets the logger used for data warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) { r.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

// WithOrderNumbers replaces the random order number generator.
func WithOrderNumbers(gen func() string) Option {
	return func(r *Registry) { r.orderNumber = gen }
}

// NewRegistry builds a registry over a private copy of seed.
func NewRegistry(seed Seed, opts ...Option) *Registry {
	r := &Registry{
		pub:         notify.Discard,
		log:         logrus.StandardLogger(),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
		orderNumber: randomOrderNumber,
	}
	for _, o := range opts {
		o(r)
	}
	r.load(seed)
	metrics.KitchenActiveOrders.Set(float64(r.kitchen.ActiveOrders))
	return r
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomOrderNumber returns "ORD-" followed by six uppercase alphanumerics.
func randomOrderNumber() string {
	var b strings.Builder
	b.WriteString("ORD-")
	for range 6 {
		b.WriteByte(orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))])
	}
	return b.String()
}

// publish must be called without r.mu held.
func (r *Registry) publish(event string, payload any) {
	r.pub.Publish(event, payload)
}
