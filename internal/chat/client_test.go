package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/config"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestCompleteSendsSystemPrompt(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"The canteen opens at 8."}}]}`)
	}))
	defer srv.Close()

	c := NewClient(config.ChatConfig{URL: srv.URL, APIKey: "secret", Model: "test-model"}, quietLogger())
	reply, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "When does the canteen open?"}})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "The canteen opens at 8." {
		t.Errorf("reply = %q", reply)
	}
	if got.Model != "test-model" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[0].Content != SystemPrompt {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.Messages[1].Content != "When does the canteen open?" {
		t.Errorf("user message = %+v", got.Messages[1])
	}
}

func TestCompleteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key"}}`)
	}))
	defer srv.Close()

	c := NewClient(config.ChatConfig{URL: srv.URL}, quietLogger())
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if up.Status != http.StatusUnauthorized || up.Message != UpstreamMessage {
		t.Errorf("upstream = %+v", up)
	}
	raw, ok := up.Payload.(json.RawMessage)
	if !ok || string(raw) != `{"error":{"message":"invalid api key"}}` {
		t.Errorf("payload = %#v", up.Payload)
	}
	if errors.Is(err, ErrUpstreamTimeout) {
		t.Error("provider error reported as timeout")
	}
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(config.ChatConfig{URL: srv.URL, Timeout: 50 * time.Millisecond}, quietLogger())
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Fatalf("err = %v, want ErrUpstreamTimeout", err)
	}
}

func TestCompleteNoMessages(t *testing.T) {
	c := NewClient(config.ChatConfig{URL: "http://127.0.0.1:1"}, quietLogger())
	if _, err := c.Complete(context.Background(), nil); !errors.Is(err, ErrNoMessages) {
		t.Errorf("err = %v, want ErrNoMessages", err)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.ChatConfig{URL: srv.URL}, quietLogger())
	msgs := []Message{{Role: "user", Content: "hi"}}
	for range 5 {
		_, _ = c.Complete(context.Background(), msgs)
	}
	_, err := c.Complete(context.Background(), msgs)

	var up *UpstreamError
	if !errors.As(err, &up) || up.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want open breaker", err)
	}
	if calls != 5 {
		t.Errorf("provider calls = %d, want 5", calls)
	}
}
