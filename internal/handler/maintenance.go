package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
)

// MaintenanceHandler serves issue reporting.
type MaintenanceHandler struct {
	Registry *repository.Registry
	Store    BlobStore
}

func NewMaintenanceHandler(reg *repository.Registry, store BlobStore) *MaintenanceHandler {
	if reg == nil {
		panic("nil registry passed to NewMaintenanceHandler")
	}
	return &MaintenanceHandler{Registry: reg, Store: store}
}

// issueForm is accepted as multipart, urlencoded or JSON.
type issueForm struct {
	Type        string         `json:"type" form:"type"`
	Title       string         `json:"title" form:"title"`
	Location    string         `json:"location" form:"location"`
	Description string         `json:"description" form:"description"`
	ReportedBy  string         `json:"reportedBy" form:"reportedBy"`
	Priority    model.Priority `json:"priority" form:"priority"`
	Lat         coordinate     `json:"lat" form:"lat"`
	Lng         coordinate     `json:"lng" form:"lng"`
}

// ListIssues handles GET /api/maintenance/issues?status=&type=.
func (h *MaintenanceHandler) ListIssues(c echo.Context) error {
	return okList(c, h.Registry.ListIssues(model.IssueFilter{
		Status: model.IssueStatus(c.QueryParam("status")),
		Type:   c.QueryParam("type"),
	}))
}

// ReportIssue handles POST /api/maintenance/issues with an optional photo.
func (h *MaintenanceHandler) ReportIssue(c echo.Context) error {
	var f issueForm
	if err := c.Bind(&f); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	photo, err := saveUpload(c, h.Store, "photo")
	if err != nil {
		return writeError(c, err)
	}
	is, err := h.Registry.ReportIssue(model.NewIssue{
		Type:        f.Type,
		Title:       f.Title,
		Location:    f.Location,
		Description: f.Description,
		ReportedBy:  f.ReportedBy,
		Priority:    f.Priority,
		Lat:         f.Lat.v,
		Lng:         f.Lng.v,
		Photo:       photo,
	})
	if err != nil {
		discardUpload(c, h.Store, photo)
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, is)
}

// UpdateIssue handles PUT /api/maintenance/issues/:id.
func (h *MaintenanceHandler) UpdateIssue(c echo.Context) error {
	var p model.IssuePatch
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	is, err := h.Registry.UpdateIssue(c.Param("id"), p)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, is)
}
