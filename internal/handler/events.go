package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
)

// EventsHandler serves event discovery and registration.
type EventsHandler struct {
	Registry *repository.Registry
	Store    BlobStore
}

func NewEventsHandler(reg *repository.Registry, store BlobStore) *EventsHandler {
	if reg == nil {
		panic("nil registry passed to NewEventsHandler")
	}
	return &EventsHandler{Registry: reg, Store: store}
}

type eventForm struct {
	Title       string  `json:"title" form:"title"`
	Department  string  `json:"department" form:"department"`
	Type        string  `json:"type" form:"type"`
	Date        string  `json:"date" form:"date"`
	Time        string  `json:"time" form:"time"`
	Venue       string  `json:"venue" form:"venue"`
	Description string  `json:"description" form:"description"`
	MaxCapacity int     `json:"maxCapacity" form:"maxCapacity"`
	Tags        tagList `json:"tags" form:"tags"`
	Organizer   string  `json:"organizer" form:"organizer"`
}

// ListEvents handles GET /api/events?department=&type=.
func (h *EventsHandler) ListEvents(c echo.Context) error {
	return okList(c, h.Registry.ListEvents(model.EventFilter{
		Department: c.QueryParam("department"),
		Type:       c.QueryParam("type"),
	}))
}

// GetEvent handles GET /api/events/:id.
func (h *EventsHandler) GetEvent(c echo.Context) error {
	ev, err := h.Registry.GetEvent(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, ev)
}

// CreateEvent handles POST /api/events with an optional image.
func (h *EventsHandler) CreateEvent(c echo.Context) error {
	var f eventForm
	if err := c.Bind(&f); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	image, err := saveUpload(c, h.Store, "image")
	if err != nil {
		return writeError(c, err)
	}
	ev, err := h.Registry.CreateEvent(model.NewEvent{
		Title:       f.Title,
		Department:  f.Department,
		Type:        f.Type,
		Date:        f.Date,
		Time:        f.Time,
		Venue:       f.Venue,
		Description: f.Description,
		MaxCapacity: f.MaxCapacity,
		Tags:        f.Tags,
		Organizer:   f.Organizer,
		Image:       image,
	})
	if err != nil {
		discardUpload(c, h.Store, image)
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, ev)
}

// Register handles POST /api/events/:id/register.
func (h *EventsHandler) Register(c echo.Context) error {
	ev, err := h.Registry.RegisterForEvent(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    ev,
		"message": "Registration successful!",
	})
}

// QR handles GET /api/events/:id/qr and returns a PNG students can share.
func (h *EventsHandler) QR(c echo.Context) error {
	ev, err := h.Registry.GetEvent(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	png, err := qrcode.Encode(sharePayload(ev), qrcode.Medium, 256)
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func sharePayload(ev model.Event) string {
	return fmt.Sprintf("campus-event|%s|%s|%s %s|%s", ev.ID, ev.Title, ev.Date, ev.Time, ev.Venue)
}
