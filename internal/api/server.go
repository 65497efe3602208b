// Package api exposes the simulation controller over HTTP for the UI
// collaborator. GET endpoints are public read-only observation; POST
// endpoints mutate the simulation and require a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/talgya/macrocosm/internal/controller"
	"github.com/talgya/macrocosm/internal/entropy"
	"github.com/talgya/macrocosm/internal/persistence"
	"github.com/talgya/macrocosm/internal/renorm"
	"github.com/talgya/macrocosm/internal/tier"
)

// Server serves the hierarchy state over HTTP.
type Server struct {
	Ctrl        *controller.Controller
	DB          *persistence.DB
	Entropy     *entropy.Client
	Port        int
	AdminKey    string // Bearer token for POST endpoints. Empty = POST disabled.
	SnapshotDir string
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	limiter := NewRateLimiter(10, 30)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/status", limiter.Middleware(s.handleStatus))
	mux.HandleFunc("GET /api/v1/tiers", limiter.Middleware(s.handleTiers))
	mux.HandleFunc("GET /api/v1/tier/{id}", limiter.Middleware(s.handleTier))
	mux.HandleFunc("GET /api/v1/tier/{id}/summary", limiter.Middleware(s.handleSummary))
	mux.HandleFunc("GET /api/v1/tier/{id}/events", limiter.Middleware(s.handleEvents))

	mux.HandleFunc("POST /api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("POST /api/v1/zoomin", s.adminOnly(s.handleZoomIn))
	mux.HandleFunc("POST /api/v1/zoomout", s.adminOnly(s.handleZoomOut))
	mux.HandleFunc("POST /api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(mux)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// adminOnly gates a handler behind the bearer admin key.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Ctrl.WorldStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"tick":             stats.Tick,
		"speed":            s.Ctrl.Speed(),
		"running":          s.Ctrl.Running(),
		"tiers":            stats.Tiers,
		"total_population": stats.TotalPopulation,
		"max_tech_level":   stats.MaxTechLevel,
		"active_tier":      stats.ActiveTier,
	})
}

// tierView is the light recursive projection of a node for the tree view.
type tierView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Level      string     `json:"level"`
	Mode       string     `json:"mode"`
	Population float64    `json:"population"`
	TechLevel  int        `json:"tech_level"`
	Children   []tierView `json:"children,omitempty"`
}

func viewOf(n *tier.Node) tierView {
	v := tierView{
		ID:         n.ID,
		Name:       n.Name,
		Level:      n.Level.String(),
		Mode:       n.Mode.String(),
		Population: n.Pop.Count,
		TechLevel:  n.Tech.Level,
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	var views []tierView
	for _, root := range s.Ctrl.Roots {
		views = append(views, viewOf(root))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) findTier(w http.ResponseWriter, r *http.Request) *tier.Node {
	id := r.PathValue("id")
	n := s.Ctrl.Find(id)
	if n == nil {
		http.Error(w, fmt.Sprintf("no tier %s", id), http.StatusNotFound)
		return nil
	}
	return n
}

func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	n := s.findTier(w, r)
	if n == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         n.ID,
		"name":       n.Name,
		"level":      n.Level.String(),
		"mode":       n.Mode.String(),
		"address":    n.Address().String(),
		"population": n.Pop,
		"stability":  n.Stab,
		"tech":       n.Tech,
		"beliefs":    n.Beliefs,
		"highlights": n.Highlights,
		"children":   len(n.Children),
		"active":     s.Ctrl.IsTierActive(n.ID),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	n := s.findTier(w, r)
	if n == nil {
		return
	}
	summary, err := s.Ctrl.TierSummary(n.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := s.findTier(w, r)
	if n == nil {
		return
	}
	writeJSON(w, http.StatusOK, n.Events)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.Ctrl.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, http.StatusOK, map[string]any{"speed": req.Speed})
}

func (s *Server) handleZoomIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TierID string `json:"tier_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	constraints, err := s.Ctrl.ZoomIn(req.TierID, s.Entropy.Seed())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, constraints)
}

func (s *Server) handleZoomOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TierID string        `json:"tier_id"`
		Rollup renorm.Rollup `json:"rollup"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	summary, err := s.Ctrl.ZoomOut(req.TierID, req.Rollup)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.SaveWorldState(s.Ctrl.Roots, s.Ctrl.Tick); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	path := ""
	if s.SnapshotDir != "" {
		var err error
		path, err = persistence.ExportSnapshot(s.SnapshotDir, s.Ctrl.Roots, s.Ctrl.Tick)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tick": s.Ctrl.Tick, "export": path})
}
