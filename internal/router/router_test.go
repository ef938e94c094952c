package router

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/chat"
	"github.com/iliyamo/smart-campus-hub/internal/handler"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
	"github.com/iliyamo/smart-campus-hub/internal/storage"
)

type fakeCompleter struct {
	reply string
	err   error
	got   []chat.Message
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []chat.Message) (string, error) {
	f.got = msgs
	return f.reply, f.err
}

type testServer struct {
	e         *echo.Echo
	chat      *fakeCompleter
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	reg := repository.NewRegistry(repository.DefaultSeed(time.Now()), repository.WithLogger(log))
	cc := &fakeCompleter{reply: "Try the Smart Canteen page."}

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)
	RegisterRoutes(e, nil, dir)
	RegisterServices(e, Services{
		Canteen:     handler.NewCanteenHandler(reg),
		Maintenance: handler.NewMaintenanceHandler(reg, store),
		LostFound:   handler.NewLostFoundHandler(reg, store),
		Events:      handler.NewEventsHandler(reg, store),
		Campus:      handler.NewCampusHandler(reg),
	}, nil)
	RegisterChat(e, handler.NewChatHandler(cc), nil)
	return &testServer{e: e, chat: cc, uploadDir: dir}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success          bool            `json:"success"`
	Data             json.RawMessage `json:"data"`
	Count            *int            `json:"count"`
	Message          string          `json:"message"`
	Error            json.RawMessage `json:"error"`
	PotentialMatches []struct {
		ID string `json:"id"`
	} `json:"potentialMatches"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" || body["service"] != handler.ServiceName {
		t.Errorf("body = %v", body)
	}
}

func TestMenuFilters(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		query string
		want  int
	}{
		{"", 8},
		{"?category=Beverages", 1},
		{"?available=true", 7},
		{"?available=false", 1},
		{"?category=Dessert", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			env := decode(t, s.do(t, http.MethodGet, "/api/canteen/menu"+tt.query, ""))
			if env.Count == nil || *env.Count != tt.want {
				t.Errorf("count = %v, want %d", env.Count, tt.want)
			}
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)

	kitchen := func() int {
		var k struct {
			ActiveOrders int `json:"activeOrders"`
		}
		env := decode(t, s.do(t, http.MethodGet, "/api/canteen/kitchen-status", ""))
		_ = json.Unmarshal(env.Data, &k)
		return k.ActiveOrders
	}
	before := kitchen()

	rec := s.do(t, http.MethodPost, "/api/canteen/orders",
		`{"items":[{"menuItemId":"5","quantity":2,"name":"Cold Coffee"}],"studentName":"Asha","studentId":"S42"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("place order status = %d: %s", rec.Code, rec.Body)
	}
	var order struct {
		ID          string  `json:"id"`
		OrderNumber string  `json:"orderNumber"`
		Total       float64 `json:"total"`
		Status      string  `json:"status"`
	}
	_ = json.Unmarshal(decode(t, rec).Data, &order)
	if order.Total != 100 || order.Status != "confirmed" || !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("order = %+v", order)
	}
	if got := kitchen(); got != min(before+1, 20) {
		t.Errorf("activeOrders = %d, want %d", got, before+1)
	}

	if rec := s.do(t, http.MethodGet, "/api/canteen/orders/"+order.ID, ""); rec.Code != http.StatusOK {
		t.Errorf("get order status = %d", rec.Code)
	}

	listed := decode(t, s.do(t, http.MethodGet, "/api/canteen/orders?studentId=S42", ""))
	var orders []json.RawMessage
	_ = json.Unmarshal(listed.Data, &orders)
	if len(orders) != 1 {
		t.Errorf("orders for S42 = %d", len(orders))
	}

	rec = s.do(t, http.MethodPut, "/api/canteen/orders/"+order.ID+"/status", `{"status":"ready"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d: %s", rec.Code, rec.Body)
	}

	rec = s.do(t, http.MethodGet, "/api/canteen/orders/"+order.ID+"/receipt", "")
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "application/pdf" {
		t.Fatalf("receipt = %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("receipt is not a PDF")
	}
}

func TestOrderErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		msg    string
	}{
		{"no items", http.MethodPost, "/api/canteen/orders", `{"items":[]}`, http.StatusBadRequest, "No items in order"},
		{"bad json", http.MethodPost, "/api/canteen/orders", `{"items":`, http.StatusBadRequest, "Invalid request body"},
		{"zero quantity", http.MethodPost, "/api/canteen/orders", `{"items":[{"menuItemId":"1","quantity":0}]}`, http.StatusBadRequest, "quantity must be at least 1"},
		{"unknown order", http.MethodPut, "/api/canteen/orders/nope/status", `{"status":"ready"}`, http.StatusNotFound, "Order not found"},
		{"unknown status", http.MethodPut, "/api/canteen/orders/nope/status", `{"status":"burnt"}`, http.StatusBadRequest, "Invalid order status"},
		{"missing order", http.MethodGet, "/api/canteen/orders/nope", "", http.StatusNotFound, "Order not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			env := decode(t, rec)
			if env.Success || env.Message != tt.msg {
				t.Errorf("envelope = %+v, want message %q", env, tt.msg)
			}
		})
	}
}

func TestLostFoundReportsMatches(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/lostandfound/items",
		`{"type":"found","title":"Backpack near library","category":"Bags","reportedBy":"Dev"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	env := decode(t, rec)
	if len(env.PotentialMatches) != 1 || env.PotentialMatches[0].ID != "1" {
		t.Errorf("potentialMatches = %+v", env.PotentialMatches)
	}

	rec = s.do(t, http.MethodPost, "/api/lostandfound/items", `{"type":"misplaced","title":"Pen"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/lostandfound/items/1", `{"status":"claimed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("claim status = %d: %s", rec.Code, rec.Body)
	}
	env = decode(t, s.do(t, http.MethodGet, "/api/lostandfound/items?status=claimed", ""))
	if env.Count == nil || *env.Count != 2 {
		t.Errorf("claimed count = %v, want 2", env.Count)
	}
}

func TestEventRegistrationUntilFull(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/events",
		`{"title":"Chess Night","date":"2026-04-02","maxCapacity":1,"tags":"Games, Strategy","department":"Clubs"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var ev struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	_ = json.Unmarshal(decode(t, rec).Data, &ev)
	if len(ev.Tags) != 2 || ev.Tags[1] != "Strategy" {
		t.Errorf("tags = %v", ev.Tags)
	}

	rec = s.do(t, http.MethodPost, "/api/events/"+ev.ID+"/register", "")
	if env := decode(t, rec); rec.Code != http.StatusOK || env.Message != "Registration successful!" {
		t.Fatalf("register = %d %+v", rec.Code, env)
	}
	rec = s.do(t, http.MethodPost, "/api/events/"+ev.ID+"/register", "")
	if env := decode(t, rec); rec.Code != http.StatusBadRequest || env.Message != "Event is full" {
		t.Errorf("full = %d %+v", rec.Code, env)
	}

	rec = s.do(t, http.MethodGet, "/api/events/missing", "")
	if env := decode(t, rec); rec.Code != http.StatusNotFound || env.Message != "Event not found" {
		t.Errorf("missing = %d %+v", rec.Code, env)
	}

	rec = s.do(t, http.MethodGet, "/api/events/"+ev.ID+"/qr", "")
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "image/png" {
		t.Errorf("qr = %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}

	rec = s.do(t, http.MethodPost, "/api/events", `{"title":"No date","maxCapacity":10}`)
	if env := decode(t, rec); rec.Code != http.StatusBadRequest || env.Message != "Date is required" {
		t.Errorf("no date = %d %+v", rec.Code, env)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReportIssueWithPhoto(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"title":    "Broken projector",
		"type":     "Electricity",
		"location": "Room 101",
		"lat":      "28.61",
		"lng":      "not-a-number",
	} {
		_ = mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("photo", "projector.png")
	_, _ = fw.Write(pngBytes(t))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/maintenance/issues", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var is struct {
		Priority string   `json:"priority"`
		Status   string   `json:"status"`
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
		Photo    *string  `json:"photo"`
	}
	_ = json.Unmarshal(decode(t, rec).Data, &is)
	if is.Priority != "medium" || is.Status != "pending" {
		t.Errorf("issue = %+v", is)
	}
	if is.Lat == nil || *is.Lat != 28.61 || is.Lng != nil {
		t.Errorf("coordinates = %v %v", is.Lat, is.Lng)
	}
	if is.Photo == nil || !strings.HasPrefix(*is.Photo, storage.PublicPrefix) || filepath.Ext(*is.Photo) != ".png" {
		t.Fatalf("photo = %v", is.Photo)
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, strings.TrimPrefix(*is.Photo, storage.PublicPrefix))); err != nil {
		t.Errorf("stored photo: %v", err)
	}

	rec = s.do(t, http.MethodGet, *is.Photo, "")
	if rec.Code != http.StatusOK {
		t.Errorf("serve upload status = %d", rec.Code)
	}
}

func TestReportIssueRejectsNonImage(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Leak")
	_ = mw.WriteField("type", "Plumbing")
	_ = mw.WriteField("location", "Hostel")
	fw, _ := mw.CreateFormFile("photo", "notes.txt")
	_, _ = fw.Write([]byte("hello"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/maintenance/issues", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if env := decode(t, s.do(t, http.MethodGet, "/api/maintenance/issues", "")); env.Count == nil || *env.Count != 3 {
		t.Errorf("issue count after rejected upload = %v", env.Count)
	}
}

func TestRejectedReportLeavesNoUpload(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		field  string
		values map[string]string
	}{
		{"issue without title", "/api/maintenance/issues", "photo",
			map[string]string{"type": "Plumbing", "location": "Hostel"}},
		{"lost item with bad type", "/api/lostandfound/items", "image",
			map[string]string{"type": "stolen", "title": "Blue bottle", "location": "Library"}},
		{"event without capacity", "/api/events", "image",
			map[string]string{"title": "Hack night", "date": "2025-03-01", "maxCapacity": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			for k, v := range tt.values {
				_ = mw.WriteField(k, v)
			}
			fw, _ := mw.CreateFormFile(tt.field, "upload.png")
			_, _ = fw.Write(pngBytes(t))
			_ = mw.Close()

			req := httptest.NewRequest(http.MethodPost, tt.path, &body)
			req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			entries, err := os.ReadDir(s.uploadDir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Errorf("upload dir holds %d files after rejected report", len(entries))
			}
		})
	}
}

func TestReportIssueNonFiniteCoordinates(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/maintenance/issues",
		`{"title":"Leak","type":"Plumbing","location":"Hostel A","lat":"NaN","lng":"Inf"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var is struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	_ = json.Unmarshal(decode(t, rec).Data, &is)
	if is.Lat != nil || is.Lng != nil {
		t.Errorf("coordinates = %v %v, want null", is.Lat, is.Lng)
	}

	rec = s.do(t, http.MethodGet, "/api/maintenance/issues", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body)
	}
	if env := decode(t, rec); env.Count == nil || *env.Count != 4 {
		t.Errorf("issue count = %v, want 4", env.Count)
	}
}

func TestUpdateIssue(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPut, "/api/maintenance/issues/2", `{"status":"in-progress","note":"Plumber on the way"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var is struct {
		Status  string   `json:"status"`
		Updates []string `json:"updates"`
	}
	_ = json.Unmarshal(decode(t, rec).Data, &is)
	if is.Status != "in-progress" || len(is.Updates) != 1 {
		t.Errorf("issue = %+v", is)
	}

	rec = s.do(t, http.MethodPut, "/api/maintenance/issues/404", `{"status":"resolved"}`)
	if env := decode(t, rec); rec.Code != http.StatusNotFound || env.Message != "Issue not found" {
		t.Errorf("missing = %d %+v", rec.Code, env)
	}
}

func TestCampusReads(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/api/transport/routes/2", ""); rec.Code != http.StatusOK {
		t.Errorf("route 2 = %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/api/transport/routes/99", "")
	if env := decode(t, rec); rec.Code != http.StatusNotFound || env.Message != "Route not found" {
		t.Errorf("route 99 = %d %+v", rec.Code, env)
	}
	env := decode(t, s.do(t, http.MethodGet, "/api/map/buildings?type=hostel", ""))
	var buildings []json.RawMessage
	_ = json.Unmarshal(env.Data, &buildings)
	if len(buildings) != 2 {
		t.Errorf("hostels = %d, want 2", len(buildings))
	}
}

func TestChat(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/chat", `{"messages":[]}`)
	if env := decode(t, rec); rec.Code != http.StatusBadRequest || env.Message != "No messages provided" {
		t.Errorf("empty = %d %+v", rec.Code, env)
	}

	rec = s.do(t, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"How do I order food?"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat = %d: %s", rec.Code, rec.Body)
	}
	var reply string
	_ = json.Unmarshal(decode(t, rec).Data, &reply)
	if reply != s.chat.reply || len(s.chat.got) != 1 {
		t.Errorf("reply = %q, forwarded %d messages", reply, len(s.chat.got))
	}

	s.chat.err = &chat.UpstreamError{
		Message: chat.UpstreamMessage,
		Status:  http.StatusTooManyRequests,
		Payload: json.RawMessage(`{"error":"quota"}`),
	}
	rec = s.do(t, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	env := decode(t, rec)
	if rec.Code != http.StatusInternalServerError || env.Message != chat.UpstreamMessage {
		t.Errorf("upstream failure = %d %+v", rec.Code, env)
	}
	if string(env.Error) != `{"error":"quota"}` {
		t.Errorf("error payload = %s", env.Error)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/nothing-here", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decode(t, rec); env.Success {
		t.Errorf("envelope = %+v", env)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
