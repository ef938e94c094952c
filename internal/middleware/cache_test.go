package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/config"
)

func TestRedisCacheNilClientPassesThrough(t *testing.T) {
	calls := 0
	h := NewRedisCache(config.CacheConfig{Enabled: true}, nil)(func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "menu")
	})
	e := echo.New()
	for range 2 {
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/canteen/menu", nil), rec)); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestCacheKeyIncludesPathParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{KeyStrategy: "route", Prefix: "test:cache"}

	key := func(id string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/transport/routes/"+id, nil), httptest.NewRecorder())
		c.SetPath("/api/transport/routes/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
		return cacheKeyFrom(cfg, c)
	}
	if key("1") == key("2") {
		t.Error("routes 1 and 2 share a cache key")
	}
	if key("1") != key("1") {
		t.Error("cache key is not stable")
	}
}

func TestPrometheusRecordsHandlerErrors(t *testing.T) {
	e := echo.New()
	h := Prometheus()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/brew", nil), rec)
	if err := h(c); err != nil {
		t.Fatalf("error leaked past middleware: %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
