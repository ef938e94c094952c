// Package chat proxies conversations to an OpenAI compatible
// chat-completion provider with a fixed campus assistant prompt.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/iliyamo/smart-campus-hub/internal/config"
	"github.com/iliyamo/smart-campus-hub/internal/metrics"
)

// SystemPrompt is sent ahead of every conversation.
const SystemPrompt = `You are the official Smart Campus AI Assistant for the 'Smart Campus Services Hub'.

Website Features Information:
1. Smart Canteen: Students can pre-order meals, see real-time kitchen status, and get precise pickup ETAs.
2. Issue Reporting: Report maintenance problems (plumbing, electrical, etc.) with photos and GPS pins.
3. Lost & Found: Post lost items; the system uses AI to auto-match and notify when found.
4. Event Discovery: Find workshops, fests, and career opportunities with department-wise notifications.
5. Campus Navigation: Interactive map with 'you-are-here' dots and pathfinding to any building.
6. Transport Tracker: Live tracking for campus buses and route arrival times.

Mission & Goals:
- Mission: To unify scattered WhatsApp groups and manual processes into one intuitive platform.
- Goals: Achieving a 100% digital workflow, AI-powered support, and a unified ecosystem including libraries and labs by late 2026.

Guidelines:
- Be helpful, polite, and campus-aware.
- If a student asks how to do something, explain the relevant service.
- Keep answers concise and student-friendly.`

// UpstreamMessage is the user-facing text of every provider failure.
const UpstreamMessage = "Error communicating with AI service"

var (
	// ErrNoMessages is returned for an empty conversation.
	ErrNoMessages = errors.New("no messages provided")
	// ErrUpstreamTimeout is matched by an *UpstreamError whose call timed
	// out. Callers may retry it.
	ErrUpstreamTimeout = errors.New("chat provider timed out")
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpstreamError describes a failed provider call. Payload is the
// provider's error body when it sent one, otherwise the transport error
// text.
type UpstreamError struct {
	Message string
	Status  int
	Payload any
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Message, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamTimeout && e.Timeout
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client calls the provider through a circuit breaker so a failing
// provider is not hammered by every student at once.
type Client struct {
	http    *resty.Client
	url     string
	model   string
	breaker *gobreaker.CircuitBreaker
	log     logrus.FieldLogger
}

const breakerName = "chat-provider"

func NewClient(cfg config.ChatConfig, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "chat")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			log.WithFields(logrus.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{http: httpc, url: cfg.URL, model: cfg.Model, breaker: cb, log: log}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// Complete sends the conversation, prefixed with SystemPrompt, and returns
// the assistant's reply.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return "", ErrNoMessages
	}
	body := completionRequest{
		Model:    c.model,
		Messages: append([]Message{{Role: "system", Content: SystemPrompt}}, msgs...),
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.call(ctx, body)
	})
	if err != nil {
		var up *UpstreamError
		if !errors.As(err, &up) {
			// breaker rejected the call without reaching the provider
			up = &UpstreamError{Message: UpstreamMessage, Status: 503, Payload: err.Error(), Err: err}
		}
		result := "error"
		if up.Timeout {
			result = "timeout"
		}
		metrics.ChatRequests.WithLabelValues(result).Inc()
		c.log.WithError(err).WithField("status", up.Status).Warn("chat completion failed")
		return "", up
	}
	metrics.ChatRequests.WithLabelValues("ok").Inc()
	return out.(string), nil
}

func (c *Client) call(ctx context.Context, body completionRequest) (string, error) {
	var result completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(c.url)
	if err != nil {
		return "", &UpstreamError{
			Message: UpstreamMessage,
			Payload: err.Error(),
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	if resp.IsError() {
		return "", &UpstreamError{
			Message: UpstreamMessage,
			Status:  resp.StatusCode(),
			Payload: rawPayload(resp.Body()),
		}
	}
	if len(result.Choices) == 0 {
		return "", &UpstreamError{
			Message: UpstreamMessage,
			Status:  resp.StatusCode(),
			Payload: rawPayload(resp.Body()),
			Err:     errors.New("response has no choices"),
		}
	}
	return result.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// rawPayload keeps a JSON error body as JSON so it is echoed verbatim.
func rawPayload(b []byte) any {
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	return string(b)
}
