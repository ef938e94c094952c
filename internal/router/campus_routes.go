package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/handler"
)

// Services groups the handlers of the campus service endpoints.
type Services struct {
	Canteen     *handler.CanteenHandler
	Maintenance *handler.MaintenanceHandler
	LostFound   *handler.LostFoundHandler
	Events      *handler.EventsHandler
	Campus      *handler.CampusHandler
}

// RegisterServices registers the /api service endpoints. cache wraps the
// reads whose data never changes after startup (menu, routes, buildings).
func RegisterServices(e *echo.Echo, s Services, cache echo.MiddlewareFunc) {
	if cache == nil {
		cache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	api := e.Group("/api")

	canteen := api.Group("/canteen")
	canteen.GET("/menu", s.Canteen.Menu, cache)
	canteen.GET("/kitchen-status", s.Canteen.KitchenStatus)
	canteen.GET("/orders", s.Canteen.ListOrders)
	canteen.POST("/orders", s.Canteen.PlaceOrder)
	canteen.GET("/orders/:id", s.Canteen.GetOrder)
	canteen.PUT("/orders/:id/status", s.Canteen.UpdateOrderStatus)
	canteen.GET("/orders/:id/receipt", s.Canteen.Receipt)

	api.GET("/maintenance/issues", s.Maintenance.ListIssues)
	api.POST("/maintenance/issues", s.Maintenance.ReportIssue)
	api.PUT("/maintenance/issues/:id", s.Maintenance.UpdateIssue)

	api.GET("/lostandfound/items", s.LostFound.ListItems)
	api.POST("/lostandfound/items", s.LostFound.ReportItem)
	api.PUT("/lostandfound/items/:id", s.LostFound.UpdateItem)

	api.GET("/events", s.Events.ListEvents)
	api.POST("/events", s.Events.CreateEvent)
	api.GET("/events/:id", s.Events.GetEvent)
	api.POST("/events/:id/register", s.Events.Register)
	api.GET("/events/:id/qr", s.Events.QR)

	api.GET("/transport/routes", s.Campus.Routes, cache)
	api.GET("/transport/routes/:id", s.Campus.Route, cache)
	api.GET("/map/buildings", s.Campus.Buildings, cache)
}
