// Package notify fans registry changes out to realtime subscribers and
// broker mirrors.  Delivery is best effort and at most once; there is no
// replay for late joiners beyond the kitchen snapshot sent on connect.
package notify

import (
	"github.com/iliyamo/smart-campus-hub/internal/metrics"
)

// Event names pushed to subscribers.
const (
	KitchenStatus    = "kitchenStatus"
	NewOrder         = "newOrder"
	OrderUpdate      = "orderUpdate"
	NewIssue         = "newIssue"
	IssueUpdate      = "issueUpdate"
	NewLostFoundItem = "newLostFoundItem"
	PotentialMatch   = "potentialMatch"
	NewEvent         = "newEvent"
	EventUpdate      = "eventUpdate"
)

// Publisher delivers one named event.  Implementations must not block the
// caller for long and must never fail the originating request.
type Publisher interface {
	Publish(event string, payload any)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(event string, payload any)

func (f PublisherFunc) Publish(event string, payload any) { f(event, payload) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(string, any) {})

// Fanout publishes each event to every wrapped publisher in order.
type Fanout []Publisher

// NewFanout skips nil publishers so optional transports can be passed
// unconditionally.
func NewFanout(pubs ...Publisher) Fanout {
	out := make(Fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (f Fanout) Publish(event string, payload any) {
	metrics.NotificationsPublished.WithLabelValues(event).Inc()
	for _, p := range f {
		p.Publish(event, payload)
	}
}
