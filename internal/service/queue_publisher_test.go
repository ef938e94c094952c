package service

import (
	"testing"
	"time"

	"github.com/iliyamo/smart-campus-hub/internal/queue"
)

func TestRabbitPublisherBuffersAndDrops(t *testing.T) {
	p := NewRabbitPublisher("amqp://unused", "campus.notifications", 2, nil)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	p.Publish("newOrder", map[string]string{"id": "o1"})
	p.Publish("orderUpdate", map[string]string{"id": "o1"})
	p.Publish("kitchenStatus", map[string]int{"activeOrders": 3})

	if n := p.Pending(); n != 2 {
		t.Fatalf("pending = %d, want 2", n)
	}
	first := <-p.queue
	if first.routingKey != "newOrder" {
		t.Errorf("routing key = %q", first.routingKey)
	}
	ev, err := queue.Decode(first.body)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Event != "newOrder" || !ev.PublishedAt.Equal(at) {
		t.Errorf("decoded = %+v", ev)
	}
}

func TestRabbitPublisherClosedDropsSilently(t *testing.T) {
	p := NewRabbitPublisher("amqp://unused", "campus.notifications", 4, nil)
	p.Close()
	p.Close()
	p.Publish("newIssue", nil)
	if n := p.Pending(); n != 0 {
		t.Errorf("pending after close = %d", n)
	}
}
