// Package router defines how HTTP routes are registered for the API.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/smart-campus-hub/internal/handler"
)

// RegisterRoutes registers the operational endpoints: health, metrics,
// the realtime socket and uploaded files. realtime may be nil in tests.
func RegisterRoutes(e *echo.Echo, realtime http.Handler, uploadDir string) {
	e.GET("/api/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if realtime != nil {
		e.GET("/socket", echo.WrapHandler(realtime))
	}
	if uploadDir != "" {
		e.Static("/uploads", uploadDir)
	}
}

// RegisterChat mounts the chat proxy behind the given limiter.
func RegisterChat(e *echo.Echo, h *handler.ChatHandler, limit echo.MiddlewareFunc) {
	if limit == nil {
		e.POST("/api/chat", h.Chat)
		return
	}
	e.POST("/api/chat", h.Chat, limit)
}
