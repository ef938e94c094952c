package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/config"
	"github.com/iliyamo/smart-campus-hub/internal/model"
)

// KitchenUpdater applies a random walk step to the kitchen status and
// broadcasts the result.
type KitchenUpdater interface {
	ApplyKitchenJitter(dWait, dOrders int) model.KitchenStatus
}

// KitchenSimulator periodically jitters the kitchen wait time and active
// order count. It is cosmetic and not derived from real orders.
type KitchenSimulator struct {
	kitchen     KitchenUpdater
	tick        time.Duration
	waitJitter  int
	orderJitter int
	intN        func(n int) int
	log         logrus.FieldLogger
}

// SimulatorOption customises a KitchenSimulator.
type SimulatorOption func(*KitchenSimulator)

// WithRandom replaces the random source. intN must return a value in [0, n).
func WithRandom(intN func(n int) int) SimulatorOption {
	return func(s *KitchenSimulator) { s.intN = intN }
}

func WithSimulatorLogger(l logrus.FieldLogger) SimulatorOption {
	return func(s *KitchenSimulator) { s.log = l }
}

func NewKitchenSimulator(k KitchenUpdater, cfg config.KitchenConfig, opts ...SimulatorOption) *KitchenSimulator {
	if k == nil {
		panic("nil kitchen updater")
	}
	s := &KitchenSimulator{
		kitchen:     k,
		tick:        cfg.Tick,
		waitJitter:  max(cfg.WaitJitter, 0),
		orderJitter: max(cfg.OrderJitter, 0),
		intN:        rand.IntN,
		log:         logrus.StandardLogger(),
	}
	if s.tick <= 0 {
		s.tick = 5 * time.Second
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Step applies one random walk step: each counter moves by a value drawn
// uniformly from [-jitter, jitter].
func (s *KitchenSimulator) Step() model.KitchenStatus {
	return s.kitchen.ApplyKitchenJitter(s.delta(s.waitJitter), s.delta(s.orderJitter))
}

func (s *KitchenSimulator) delta(jitter int) int {
	if jitter == 0 {
		return 0
	}
	return s.intN(2*jitter+1) - jitter
}

// Run steps once per tick until ctx is cancelled.
func (s *KitchenSimulator) Run(ctx context.Context) {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	s.log.WithField("tick", s.tick).Info("kitchen simulator started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("kitchen simulator stopped")
			return
		case <-t.C:
			st := s.Step()
			s.log.WithFields(logrus.Fields{
				"avg_wait":      st.AvgWaitTime,
				"active_orders": st.ActiveOrders,
			}).Debug("kitchen status tick")
		}
	}
}
