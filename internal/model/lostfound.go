package model

import "time"

// LostFoundType says whether an item was lost or found.
type LostFoundType string

const (
	Lost  LostFoundType = "lost"
	Found LostFoundType = "found"
)

func (t LostFoundType) Valid() bool { return t == Lost || t == Found }

// Opposite returns the type a candidate match must have.
func (t LostFoundType) Opposite() LostFoundType {
	if t == Lost {
		return Found
	}
	return Lost
}

// LostFoundStatus tracks whether an item is still open.
type LostFoundStatus string

const (
	LostFoundActive  LostFoundStatus = "active"
	LostFoundClaimed LostFoundStatus = "claimed"
)

func (s LostFoundStatus) Valid() bool { return s == LostFoundActive || s == LostFoundClaimed }

// DefaultLostFoundCategory is applied when a report has no category.
const DefaultLostFoundCategory = "Other"

// LostFoundItem is a lost or found report.
type LostFoundItem struct {
	ID          string          `json:"id"`
	Type        LostFoundType   `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	ReportedBy  string          `json:"reportedBy"`
	Contact     string          `json:"contact"`
	Category    string          `json:"category"`
	Status      LostFoundStatus `json:"status"`
	Image       *string         `json:"image"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewLostFoundItem carries the fields of a lost/found report.
type NewLostFoundItem struct {
	Type        LostFoundType
	Title       string
	Description string
	Location    string
	ReportedBy  string
	Contact     string
	Category    string
	Image       string
}

// LostFoundPatch lists the mutable fields of a report.
type LostFoundPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Contact     *string          `json:"contact"`
	Category    *string          `json:"category"`
	Status      *LostFoundStatus `json:"status"`
}

// LostFoundFilter narrows a lost-and-found listing.
type LostFoundFilter struct {
	Type     LostFoundType
	Status   LostFoundStatus
	Category string
}

func (f LostFoundFilter) Match(i *LostFoundItem) bool {
	if f.Type != "" && i.Type != f.Type {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Category != "" && i.Category != f.Category {
		return false
	}
	return true
}

// MatchResult is a freshly reported item together with the existing
// reports that heuristically look like its counterpart.
type MatchResult struct {
	NewItem LostFoundItem   `json:"newItem"`
	Matches []LostFoundItem `json:"matches"`
}
