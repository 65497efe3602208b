package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talgya/macrocosm/internal/controller"
	"github.com/talgya/macrocosm/internal/renorm"
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

func newTestServer(t *testing.T) (*Server, *tier.Node) {
	t.Helper()
	tun := tuning.Default()
	tun.Events.BaseChance = 0
	tun.Events.MegaChance = 0
	engine := renorm.New(tun, 1)

	zone, err := tier.NewNode("api zone", tier.LevelZone)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	zone.Pop.Count = 8000
	zone.Pop.CarryingCapacity = 40_000
	zone.Stab.Stability = 55

	region, err := tier.NewNode("api region", tier.LevelRegion)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	if err := region.AddChild(zone); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	ctrl, err := controller.New(engine, []*tier.Node{region})
	if err != nil {
		t.Fatalf("controller.New: %v", err)
	}
	return &Server{Ctrl: ctrl, AdminKey: "sekrit"}, zone
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["tiers"].(float64) != 2 {
		t.Fatalf("tiers = %v, want 2", body["tiers"])
	}
}

func TestHandleTier_PathValue(t *testing.T) {
	s, zone := newTestServer(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/tier/{id}", s.handleTier)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tier/"+zone.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["name"] != "api zone" || body["level"] != "zone" {
		t.Fatalf("body = %v", body)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tier/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status for unknown tier = %d", rec.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	s, _ := newTestServer(t)
	called := false
	h := s.adminOnly(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/v1/speed", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("no token: status %d, called %v", rec.Code, called)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("wrong token: status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/speed", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	h(rec, req)
	if !called {
		t.Fatalf("valid token rejected: status %d", rec.Code)
	}

	// With no key configured the endpoints are disabled outright.
	s.AdminKey = ""
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("disabled admin: status %d", rec.Code)
	}
}

func TestHandleSpeed(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed": 3}`))
	rec := httptest.NewRecorder()
	s.handleSpeed(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if s.Ctrl.Speed() != 3 {
		t.Fatalf("speed = %v, want 3", s.Ctrl.Speed())
	}

	rec = httptest.NewRecorder()
	s.handleSpeed(rec, httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body: status = %d", rec.Code)
	}
}

func TestHandleZoomOut(t *testing.T) {
	s, zone := newTestServer(t)
	if _, err := s.Ctrl.ZoomIn(zone.ID, 42); err != nil {
		t.Fatalf("ZoomIn: %v", err)
	}

	body := `{"tier_id": "` + zone.ID + `", "rollup": {"Population": 9999, "Stability": 61}}`
	rec := httptest.NewRecorder()
	s.handleZoomOut(rec, httptest.NewRequest(http.MethodPost, "/api/v1/zoomout", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if zone.Mode != tier.ModeAbstract {
		t.Fatalf("mode = %s after zoom-out", zone.Mode)
	}

	// Zooming out a tier that is no longer active is a conflict, not a crash.
	rec = httptest.NewRecorder()
	s.handleZoomOut(rec, httptest.NewRequest(http.MethodPost, "/api/v1/zoomout", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	var ok, limited int
	h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) { ok++ })

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if ok == 0 || limited == 0 {
		t.Fatalf("ok=%d limited=%d, want both nonzero with burst 2", ok, limited)
	}

	// A different client gets its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.RemoteAddr = "10.0.0.2:9999"
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh client limited: %d", rec.Code)
	}
}
