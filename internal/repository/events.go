package repository

import (
	"slices"
	"strings"

	"github.com/iliyamo/smart-campus-hub/internal/metrics"
	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/notify"
)

// ListEvents returns matching events in creation order.
func (r *Registry) ListEvents(f model.EventFilter) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Event, 0, len(r.events))
	for _, ev := range r.events {
		if f.Match(ev) {
			out = append(out, ev.Clone())
		}
	}
	return out
}

// GetEvent looks an event up by id.
func (r *Registry) GetEvent(id string) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev := r.findEvent(id)
	if ev == nil {
		return model.Event{}, notFound("event")
	}
	return ev.Clone(), nil
}

func (r *Registry) findEvent(id string) *model.Event {
	for _, ev := range r.events {
		if ev.ID == id {
			return ev
		}
	}
	return nil
}

// CreateEvent appends a new event with no registrations.
func (r *Registry) CreateEvent(in model.NewEvent) (model.Event, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return model.Event{}, invalid("Title is required")
	case strings.TrimSpace(in.Date) == "":
		return model.Event{}, invalid("Date is required")
	case in.MaxCapacity <= 0:
		return model.Event{}, invalid("maxCapacity must be a positive number")
	}

	ev := &model.Event{
		Title:       in.Title,
		Department:  in.Department,
		Type:        in.Type,
		Date:        in.Date,
		Time:        in.Time,
		Venue:       in.Venue,
		Description: in.Description,
		MaxCapacity: in.MaxCapacity,
		Tags:        slices.Clone(in.Tags),
		Organizer:   in.Organizer,
	}
	if ev.Tags == nil {
		ev.Tags = []string{}
	}
	if in.Image != "" {
		ev.Image = ptr(in.Image)
	}

	r.mu.Lock()
	ev.ID = r.newID()
	ev.CreatedAt = r.now().UTC()
	r.events = append(r.events, ev)
	out := ev.Clone()
	r.mu.Unlock()

	r.publish(notify.NewEvent, out)
	return out, nil
}

// RegisterForEvent takes one place in the event. A full event is left
// unchanged and ErrCapacityExceeded is returned.
func (r *Registry) RegisterForEvent(id string) (model.Event, error) {
	r.mu.Lock()
	ev := r.findEvent(id)
	if ev == nil {
		r.mu.Unlock()
		metrics.EventRegistrations.WithLabelValues("not_found").Inc()
		return model.Event{}, notFound("event")
	}
	if ev.IsFull() {
		r.mu.Unlock()
		metrics.EventRegistrations.WithLabelValues("full").Inc()
		return model.Event{}, ErrCapacityExceeded
	}
	ev.Registrations++
	out := ev.Clone()
	r.mu.Unlock()

	metrics.EventRegistrations.WithLabelValues("ok").Inc()
	r.publish(notify.EventUpdate, out)
	return out, nil
}
