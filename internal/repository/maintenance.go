package repository

import (
	"strings"

	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/notify"
)

// ListIssues returns matching issues, newest first.
func (r *Registry) ListIssues(f model.IssueFilter) []model.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Issue, 0, len(r.issues))
	for _, is := range r.issues {
		if f.Match(is) {
			out = append(out, is.Clone())
		}
	}
	return out
}

// ReportIssue records a new pending issue at the head of the list.
func (r *Registry) ReportIssue(in model.NewIssue) (model.Issue, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return model.Issue{}, invalid("Title is required")
	case strings.TrimSpace(in.Type) == "":
		return model.Issue{}, invalid("Type is required")
	case strings.TrimSpace(in.Location) == "":
		return model.Issue{}, invalid("Location is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Issue{}, invalid("Invalid priority")
	}

	is := &model.Issue{
		Type:        in.Type,
		Title:       in.Title,
		Location:    in.Location,
		Description: in.Description,
		ReportedBy:  in.ReportedBy,
		Priority:    priority,
		Status:      model.IssuePending,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Updates:     []string{},
	}
	if in.Photo != "" {
		is.Photo = ptr(in.Photo)
	}

	r.mu.Lock()
	is.ID = r.newID()
	is.CreatedAt = r.now().UTC()
	r.issues = append([]*model.Issue{is}, r.issues...)
	out := is.Clone()
	r.mu.Unlock()

	r.publish(notify.NewIssue, out)
	return out, nil
}

// UpdateIssue applies p to the issue with the given id.
func (r *Registry) UpdateIssue(id string, p model.IssuePatch) (model.Issue, error) {
	if p.Priority != nil && !p.Priority.Valid() {
		return model.Issue{}, invalid("Invalid priority")
	}
	if p.Status != nil && !p.Status.Valid() {
		return model.Issue{}, invalid("Invalid status")
	}
	for _, f := range []*string{p.Title, p.Type, p.Location} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return model.Issue{}, invalid("Title, type and location cannot be empty")
		}
	}

	r.mu.Lock()
	var is *model.Issue
	for _, cur := range r.issues {
		if cur.ID == id {
			is = cur
			break
		}
	}
	if is == nil {
		r.mu.Unlock()
		return model.Issue{}, notFound("issue")
	}
	setIf(&is.Type, p.Type)
	setIf(&is.Title, p.Title)
	setIf(&is.Location, p.Location)
	setIf(&is.Description, p.Description)
	setIf(&is.Priority, p.Priority)
	setIf(&is.Status, p.Status)
	if p.Note != nil && *p.Note != "" {
		is.Updates = append(is.Updates, *p.Note)
	}
	out := is.Clone()
	r.mu.Unlock()

	r.publish(notify.IssueUpdate, out)
	return out, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
