package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
)

// CampusHandler serves the static transport and map data.
type CampusHandler struct {
	Registry *repository.Registry
}

func NewCampusHandler(reg *repository.Registry) *CampusHandler {
	if reg == nil {
		panic("nil registry passed to NewCampusHandler")
	}
	return &CampusHandler{Registry: reg}
}

func (h *CampusHandler) Routes(c echo.Context) error {
	return ok(c, http.StatusOK, h.Registry.ListRoutes())
}

func (h *CampusHandler) Route(c echo.Context) error {
	rt, err := h.Registry.GetRoute(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, rt)
}

func (h *CampusHandler) Buildings(c echo.Context) error {
	return ok(c, http.StatusOK, h.Registry.ListBuildings(model.BuildingFilter{Type: c.QueryParam("type")}))
}
