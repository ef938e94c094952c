package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
)

// LostFoundHandler serves lost and found reports.
type LostFoundHandler struct {
	Registry *repository.Registry
	Store    BlobStore
}

func NewLostFoundHandler(reg *repository.Registry, store BlobStore) *LostFoundHandler {
	if reg == nil {
		panic("nil registry passed to NewLostFoundHandler")
	}
	return &LostFoundHandler{Registry: reg, Store: store}
}

type lostFoundForm struct {
	Type        model.LostFoundType `json:"type" form:"type"`
	Title       string              `json:"title" form:"title"`
	Description string              `json:"description" form:"description"`
	Location    string              `json:"location" form:"location"`
	ReportedBy  string              `json:"reportedBy" form:"reportedBy"`
	Contact     string              `json:"contact" form:"contact"`
	Category    string              `json:"category" form:"category"`
}

// ListItems handles GET /api/lostandfound/items?type=&status=&category=.
func (h *LostFoundHandler) ListItems(c echo.Context) error {
	return okList(c, h.Registry.ListLostFound(model.LostFoundFilter{
		Type:     model.LostFoundType(c.QueryParam("type")),
		Status:   model.LostFoundStatus(c.QueryParam("status")),
		Category: c.QueryParam("category"),
	}))
}

// ReportItem handles POST /api/lostandfound/items with an optional image.
// The response lists the candidate matches found for the new report.
func (h *LostFoundHandler) ReportItem(c echo.Context) error {
	var f lostFoundForm
	if err := c.Bind(&f); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	image, err := saveUpload(c, h.Store, "image")
	if err != nil {
		return writeError(c, err)
	}
	item, matches, err := h.Registry.ReportLostFound(model.NewLostFoundItem{
		Type:        f.Type,
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		ReportedBy:  f.ReportedBy,
		Contact:     f.Contact,
		Category:    f.Category,
		Image:       image,
	})
	if err != nil {
		discardUpload(c, h.Store, image)
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":          true,
		"data":             item,
		"potentialMatches": matches,
	})
}

// UpdateItem handles PUT /api/lostandfound/items/:id.
func (h *LostFoundHandler) UpdateItem(c echo.Context) error {
	var p model.LostFoundPatch
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	item, err := h.Registry.UpdateLostFound(c.Param("id"), p)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, item)
}
