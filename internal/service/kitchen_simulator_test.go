package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/smart-campus-hub/internal/config"
	"github.com/iliyamo/smart-campus-hub/internal/model"
)

type fakeKitchen struct {
	mu    sync.Mutex
	calls [][2]int
}

func (f *fakeKitchen) ApplyKitchenJitter(dWait, dOrders int) model.KitchenStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]int{dWait, dOrders})
	return model.KitchenStatus{AvgWaitTime: dWait, ActiveOrders: dOrders}
}

func (f *fakeKitchen) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSimulatorStepRange(t *testing.T) {
	tests := []struct {
		name      string
		draw      int
		wantWait  int
		wantOrder int
	}{
		{"lowest draw", 0, -2, -1},
		{"middle draw", 1, -1, 0},
		{"highest order draw", 2, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &fakeKitchen{}
			var bounds []int
			sim := NewKitchenSimulator(k, config.KitchenConfig{WaitJitter: 2, OrderJitter: 1},
				WithRandom(func(n int) int {
					bounds = append(bounds, n)
					return min(tt.draw, n-1)
				}))
			sim.Step()

			if len(bounds) != 2 || bounds[0] != 5 || bounds[1] != 3 {
				t.Errorf("intN bounds = %v, want [5 3]", bounds)
			}
			got := k.calls[0]
			if got[0] != tt.wantWait || got[1] != tt.wantOrder {
				t.Errorf("deltas = %v, want [%d %d]", got, tt.wantWait, tt.wantOrder)
			}
		})
	}
}

func TestSimulatorZeroJitter(t *testing.T) {
	k := &fakeKitchen{}
	sim := NewKitchenSimulator(k, config.KitchenConfig{}, WithRandom(func(int) int {
		t.Fatal("intN called with zero jitter")
		return 0
	}))
	sim.Step()
	if k.calls[0] != [2]int{0, 0} {
		t.Errorf("deltas = %v", k.calls[0])
	}
}

func TestSimulatorRunStopsOnCancel(t *testing.T) {
	k := &fakeKitchen{}
	sim := NewKitchenSimulator(k, config.KitchenConfig{Tick: 5 * time.Millisecond, WaitJitter: 1, OrderJitter: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { sim.Run(ctx); close(done) }()

	deadline := time.Now().Add(time.Second)
	for k.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	if k.count() < 2 {
		t.Errorf("ticks = %d, want at least 2", k.count())
	}
}
