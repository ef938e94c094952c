package model

import (
	"slices"
	"time"
)

// Priority of a maintenance issue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// IssueStatus is the handling state of a maintenance issue.
type IssueStatus string

const (
	IssuePending    IssueStatus = "pending"
	IssueInProgress IssueStatus = "in-progress"
	IssueResolved   IssueStatus = "resolved"
	IssueRejected   IssueStatus = "rejected"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssuePending, IssueInProgress, IssueResolved, IssueRejected:
		return true
	}
	return false
}

// Issue is a maintenance problem reported on campus. Lat, Lng and Photo
// are optional and serialise as null when absent. Updates is an ordered
// log of progress notes.
type Issue struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	ReportedBy  string      `json:"reportedBy"`
	Priority    Priority    `json:"priority"`
	Status      IssueStatus `json:"status"`
	Lat         *float64    `json:"lat"`
	Lng         *float64    `json:"lng"`
	Photo       *string     `json:"photo"`
	CreatedAt   time.Time   `json:"createdAt"`
	Updates     []string    `json:"updates"`
}

func (i *Issue) Clone() Issue {
	c := *i
	c.Updates = slices.Clone(i.Updates)
	if c.Updates == nil {
		c.Updates = []string{}
	}
	return c
}

// NewIssue carries the fields of an issue report.
type NewIssue struct {
	Type        string
	Title       string
	Location    string
	Description string
	ReportedBy  string
	Priority    Priority
	Lat         *float64
	Lng         *float64
	Photo       string
}

// IssuePatch lists the fields staff may change on an issue. Nil fields
// are left untouched; Note, when set, is appended to Updates.
type IssuePatch struct {
	Type        *string      `json:"type"`
	Title       *string      `json:"title"`
	Location    *string      `json:"location"`
	Description *string      `json:"description"`
	Priority    *Priority    `json:"priority"`
	Status      *IssueStatus `json:"status"`
	Note        *string      `json:"note"`
}

// IssueFilter narrows an issue listing.
type IssueFilter struct {
	Status IssueStatus
	Type   string
}

func (f IssueFilter) Match(i *Issue) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Type != "" && i.Type != f.Type {
		return false
	}
	return true
}
