package repository

import (
	"strings"

	"github.com/iliyamo/smart-campus-hub/internal/metrics"
	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/notify"
)

// ListLostFound returns matching reports, newest first.
func (r *Registry) ListLostFound(f model.LostFoundFilter) []model.LostFoundItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.LostFoundItem, 0, len(r.items))
	for _, it := range r.items {
		if f.Match(it) {
			out = append(out, *it)
		}
	}
	return out
}

// ReportLostFound records a new active report and returns it together
// with the existing reports that may be its counterpart.
//
// A candidate is active, of the opposite type, and either has a title
// containing the first word of the new title (ignoring case) or shares
// its category. The heuristic is approximate and is meant to be confirmed
// by people.
func (r *Registry) ReportLostFound(in model.NewLostFoundItem) (model.LostFoundItem, []model.LostFoundItem, error) {
	if !in.Type.Valid() {
		return model.LostFoundItem{}, nil, invalid("Type must be lost or found")
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.LostFoundItem{}, nil, invalid("Title is required")
	}
	category := in.Category
	if category == "" {
		category = model.DefaultLostFoundCategory
	}
	it := &model.LostFoundItem{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		ReportedBy:  in.ReportedBy,
		Contact:     in.Contact,
		Category:    category,
		Status:      model.LostFoundActive,
	}
	if in.Image != "" {
		it.Image = ptr(in.Image)
	}

	r.mu.Lock()
	matches := r.candidates(it)
	it.ID = r.newID()
	it.CreatedAt = r.now().UTC()
	r.items = append([]*model.LostFoundItem{it}, r.items...)
	out := *it
	r.mu.Unlock()

	metrics.LostFoundMatches.Observe(float64(len(matches)))
	if len(matches) > 0 {
		r.publish(notify.PotentialMatch, model.MatchResult{NewItem: out, Matches: matches})
	}
	r.publish(notify.NewLostFoundItem, out)
	return out, matches, nil
}

// candidates must be called with r.mu held.
func (r *Registry) candidates(it *model.LostFoundItem) []model.LostFoundItem {
	word := strings.ToLower(strings.Fields(it.Title)[0])
	want := it.Type.Opposite()

	matches := []model.LostFoundItem{}
	for _, cur := range r.items {
		if cur.Type != want || cur.Status != model.LostFoundActive {
			continue
		}
		if strings.Contains(strings.ToLower(cur.Title), word) || cur.Category == it.Category {
			matches = append(matches, *cur)
		}
	}
	return matches
}

// UpdateLostFound applies p to the report with the given id. Marking an
// item claimed removes it from future match scans.
func (r *Registry) UpdateLostFound(id string, p model.LostFoundPatch) (model.LostFoundItem, error) {
	if p.Status != nil && !p.Status.Valid() {
		return model.LostFoundItem{}, invalid("Invalid status")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return model.LostFoundItem{}, invalid("Title cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID != id {
			continue
		}
		setIf(&it.Title, p.Title)
		setIf(&it.Description, p.Description)
		setIf(&it.Location, p.Location)
		setIf(&it.Contact, p.Contact)
		setIf(&it.Category, p.Category)
		setIf(&it.Status, p.Status)
		return *it, nil
	}
	return model.LostFoundItem{}, notFound("item")
}
