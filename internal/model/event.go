package model

import (
	"slices"
	"time"
)

// Event is a campus event students can register for. Registrations
// never exceed MaxCapacity through the registration path.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Department    string    `json:"department"`
	Type          string    `json:"type"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Venue         string    `json:"venue"`
	Description   string    `json:"description"`
	Registrations int       `json:"registrations"`
	MaxCapacity   int       `json:"maxCapacity"`
	Image         *string   `json:"image"`
	Tags          []string  `json:"tags"`
	Organizer     string    `json:"organizer"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (e *Event) Clone() Event {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}

// IsFull reports whether no registrations remain.
func (e *Event) IsFull() bool {
	return e.Registrations >= e.MaxCapacity
}

// NewEvent carries the fields of an event submission.
type NewEvent struct {
	Title       string
	Department  string
	Type        string
	Date        string
	Time        string
	Venue       string
	Description string
	MaxCapacity int
	Tags        []string
	Organizer   string
	Image       string
}

// EventFilter narrows an event listing.
type EventFilter struct {
	Department string
	Type       string
}

func (f EventFilter) Match(e *Event) bool {
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}
