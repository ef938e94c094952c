package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
)

// maxListedOrders caps GET /api/canteen/orders to the most recent orders.
const maxListedOrders = 20

// CanteenHandler serves the menu, kitchen status and order endpoints.
type CanteenHandler struct {
	Registry *repository.Registry
}

func NewCanteenHandler(reg *repository.Registry) *CanteenHandler {
	if reg == nil {
		panic("nil registry passed to NewCanteenHandler")
	}
	return &CanteenHandler{Registry: reg}
}

// Menu handles GET /api/canteen/menu?category=&available=. Any value of
// available other than "true" selects unavailable items.
func (h *CanteenHandler) Menu(c echo.Context) error {
	f := model.MenuFilter{Category: c.QueryParam("category")}
	if c.QueryParams().Has("available") {
		avail := c.QueryParam("available") == "true"
		f.Available = &avail
	}
	return okList(c, h.Registry.ListMenu(f))
}

// KitchenStatus handles GET /api/canteen/kitchen-status.
func (h *CanteenHandler) KitchenStatus(c echo.Context) error {
	return ok(c, http.StatusOK, h.Registry.KitchenStatus())
}

// ListOrders handles GET /api/canteen/orders?studentId=.
func (h *CanteenHandler) ListOrders(c echo.Context) error {
	orders := h.Registry.ListOrders(model.OrderFilter{
		StudentID: c.QueryParam("studentId"),
		Limit:     maxListedOrders,
	})
	return ok(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/canteen/orders/:id.
func (h *CanteenHandler) GetOrder(c echo.Context) error {
	o, err := h.Registry.GetOrder(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, o)
}

// PlaceOrder handles POST /api/canteen/orders.
func (h *CanteenHandler) PlaceOrder(c echo.Context) error {
	var in model.NewOrder
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return writeError(c, err)
	}
	o, err := h.Registry.PlaceOrder(in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, o)
}

type orderStatusReq struct {
	Status model.OrderStatus `json:"status" validate:"required"`
}

// UpdateOrderStatus handles PUT /api/canteen/orders/:id/status.
func (h *CanteenHandler) UpdateOrderStatus(c echo.Context) error {
	var req orderStatusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	o, err := h.Registry.UpdateOrderStatus(c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, o)
}

// Receipt handles GET /api/canteen/orders/:id/receipt and returns a PDF
// with a pickup QR code.
func (h *CanteenHandler) Receipt(c echo.Context) error {
	o, err := h.Registry.GetOrder(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := renderReceipt(o, h.Registry.ListMenu(model.MenuFilter{}))
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "inline; filename=receipt-"+o.OrderNumber+".pdf")
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
