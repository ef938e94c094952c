package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func recvFrame(t *testing.T, ch <-chan []byte) Frame {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed")
		}
		var f Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return Frame{}
}

func TestHubBroadcastsToEveryClient(t *testing.T) {
	h := NewHub(nil, nil)
	go h.Run()
	defer h.Stop()

	a := &Client{send: make(chan []byte, 4)}
	b := &Client{send: make(chan []byte, 4)}
	h.register <- a
	h.register <- b

	h.Publish(NewOrder, map[string]string{"id": "o1"})

	for _, c := range []*Client{a, b} {
		f := recvFrame(t, c.send)
		if f.Event != NewOrder {
			t.Errorf("event = %q, want %q", f.Event, NewOrder)
		}
		data, _ := f.Data.(map[string]any)
		if data["id"] != "o1" {
			t.Errorf("data = %v", f.Data)
		}
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub(nil, nil)
	go h.Run()
	defer h.Stop()

	slow := &Client{send: make(chan []byte, 1)}
	fast := &Client{send: make(chan []byte, 8)}
	h.register <- slow
	h.register <- fast

	// nothing reads slow until the fast client has seen a later frame,
	// so the second frame always finds its buffer full
	h.Publish(EventUpdate, 1)
	h.Publish(EventUpdate, 2)
	h.Publish(EventUpdate, 3)
	for i := 0; i < 3; i++ {
		recvFrame(t, fast.send)
	}

	if f := recvFrame(t, slow.send); f.Data != float64(1) {
		t.Errorf("first frame data = %v, want 1", f.Data)
	}
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Fatal("slow client received a frame after its buffer filled")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client was not disconnected")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	h := NewHub(nil, nil)
	done := make(chan struct{})
	go func() { h.Run(); close(done) }()

	c := &Client{send: make(chan []byte, 1)}
	h.register <- c
	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel still open")
	}
	// publishing after stop must not block
	h.Publish(NewIssue, nil)
}

func TestHubWebsocketSnapshotFirst(t *testing.T) {
	h := NewHub(func() any { return map[string]int{"activeOrders": 7} }, nil)
	go h.Run()
	defer h.Stop()

	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first Frame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if first.Event != KitchenStatus {
		t.Fatalf("first event = %q, want %q", first.Event, KitchenStatus)
	}
	if data, _ := first.Data.(map[string]any); data["activeOrders"] != float64(7) {
		t.Errorf("snapshot = %v", first.Data)
	}

	h.Publish(NewEvent, map[string]string{"id": "e9"})
	var next Frame
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if next.Event != NewEvent {
		t.Errorf("event = %q, want %q", next.Event, NewEvent)
	}
}

func TestFanoutSkipsNil(t *testing.T) {
	var got []string
	rec := PublisherFunc(func(event string, _ any) { got = append(got, event) })

	f := NewFanout(nil, rec, nil, rec)
	if len(f) != 2 {
		t.Fatalf("fanout len = %d, want 2", len(f))
	}
	f.Publish(NewIssue, nil)
	if len(got) != 2 || got[0] != NewIssue {
		t.Errorf("got %v", got)
	}
}
