// Package api provides the read-only HTTP API over a generated map.
// Path and visibility queries share search scratch state, so requests are
// served one at a time.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/talgya/hexmap/internal/mapgen"
	"github.com/talgya/hexmap/internal/navigation"
	"github.com/talgya/hexmap/internal/persistence"
	"github.com/talgya/hexmap/internal/world"
)

const maxVisionRadius = 20

// Server serves a generated grid over HTTP.
type Server struct {
	Grid   *world.Grid
	Paths  *navigation.Pathfinder
	Report mapgen.Report
	DB     *persistence.DB // Optional run ledger
	Port   int

	// Search queries per client per minute. Zero disables limiting.
	SearchRate int
	// Key rate limits by X-Forwarded-For. Set only behind a reverse proxy.
	TrustProxy bool

	mu sync.Mutex
}

// Handler builds the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	search := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if s.SearchRate > 0 {
		limiter := NewRateLimiter(s.SearchRate, time.Minute)
		search = func(h http.HandlerFunc) http.HandlerFunc { return RateLimitMiddleware(limiter, s.TrustProxy, h) }
	}

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.Handle("/api/v1/map", gzhttp.GzipHandler(http.HandlerFunc(s.handleBulkMap)))
	mux.HandleFunc("/api/v1/cell/", s.handleCell)
	mux.HandleFunc("/api/v1/pick", s.handlePick)
	mux.HandleFunc("/api/v1/path", search(s.handlePath))
	mux.HandleFunc("/api/v1/visible", search(s.handleVisible))
	mux.HandleFunc("/api/v1/runs", s.handleRuns)

	return corsMiddleware(getOnly(mux))
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "cells", s.Grid.CellCount(), "ledger", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// HEXMAP_CORS_ORIGINS holds a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("HEXMAP_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type cellView struct {
	Index         int               `json:"index"`
	X             int               `json:"x"`
	Z             int               `json:"z"`
	Coordinates   world.Coordinates `json:"coordinates"`
	Elevation     int               `json:"elevation"`
	WaterLevel    int               `json:"water_level"`
	Underwater    bool              `json:"underwater"`
	Terrain       string            `json:"terrain"`
	UrbanLevel    int               `json:"urban_level,omitempty"`
	FarmLevel     int               `json:"farm_level,omitempty"`
	PlantLevel    int               `json:"plant_level,omitempty"`
	Special       int               `json:"special,omitempty"`
	Walled        bool              `json:"walled,omitempty"`
	IncomingRiver *world.Direction  `json:"incoming_river,omitempty"`
	OutgoingRiver *world.Direction  `json:"outgoing_river,omitempty"`
	Roads         []world.Direction `json:"roads,omitempty"`
	Visibility    int               `json:"visibility,omitempty"`
	Explored      bool              `json:"explored,omitempty"`
}

func newCellView(c *world.Cell) cellView {
	x, z := c.Offset()
	v := cellView{
		Index:       c.Index(),
		X:           x,
		Z:           z,
		Coordinates: c.Coordinates(),
		Elevation:   c.Elevation(),
		WaterLevel:  c.WaterLevel(),
		Underwater:  c.IsUnderwater(),
		Terrain:     c.Terrain().String(),
		UrbanLevel:  c.UrbanLevel(),
		FarmLevel:   c.FarmLevel(),
		PlantLevel:  c.PlantLevel(),
		Special:     c.SpecialIndex(),
		Walled:      c.Walled(),
		Visibility:  c.Visibility(),
		Explored:    c.IsExplored(),
	}
	if c.HasIncomingRiver() {
		d := c.IncomingRiver()
		v.IncomingRiver = &d
	}
	if c.HasOutgoingRiver() {
		d := c.OutgoingRiver()
		v.OutgoingRiver = &d
	}
	for _, d := range world.Directions {
		if c.HasRoadThroughEdge(d) {
			v.Roads = append(v.Roads, d)
		}
	}
	return v
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	land, underwater := world.TerrainCounts(s.Grid)
	named := func(counts map[world.Terrain]int) map[string]int {
		out := make(map[string]int, len(counts))
		for t, n := range counts {
			out[t.String()] = n
		}
		return out
	}
	writeJSON(w, map[string]any{
		"width":      s.Grid.Width,
		"height":     s.Grid.Height,
		"cells":      s.Grid.CellCount(),
		"report":     s.Report,
		"land":       named(land),
		"underwater": named(underwater),
	})
}

// handleBulkMap returns every cell for the map renderer.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([]cellView, 0, s.Grid.CellCount())
	for _, c := range s.Grid.Cells() {
		cells = append(cells, newCellView(c))
	}
	writeJSON(w, map[string]any{
		"width":  s.Grid.Width,
		"height": s.Grid.Height,
		"cells":  cells,
	})
}

// handleCell serves GET /api/v1/cell/:index.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/v1/cell/"))
	if err != nil {
		http.Error(w, "usage: /api/v1/cell/:index", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cell := s.Grid.Cell(index)
	if cell == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}
	writeJSON(w, newCellView(cell))
}

// handlePick maps a local-space point to the cell under it.
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	x, err1 := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	z, err2 := strconv.ParseFloat(r.URL.Query().Get("z"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "usage: /api/v1/pick?x=&z=", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cell := s.Grid.CellAtPosition(x, z)
	if cell == nil {
		http.Error(w, "no cell at position", http.StatusNotFound)
		return
	}
	writeJSON(w, newCellView(cell))
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err1 := strconv.Atoi(q.Get("from"))
	to, err2 := strconv.Atoi(q.Get("to"))
	if err1 != nil || err2 != nil {
		http.Error(w, "usage: /api/v1/path?from=&to=&speed=", http.StatusBadRequest)
		return
	}
	speed := navigation.DefaultSpeed
	if v := q.Get("speed"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "speed must be a positive integer", http.StatusBadRequest)
			return
		}
		speed = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fromCell, toCell := s.Grid.Cell(from), s.Grid.Cell(to)
	if fromCell == nil || toCell == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	path, ok := s.Paths.FindPath(fromCell, toCell, speed)
	if !ok {
		writeJSON(w, map[string]any{"found": false})
		return
	}
	indices := make([]int, len(path.Cells))
	for i, c := range path.Cells {
		indices[i] = c.Index()
	}
	writeJSON(w, map[string]any{
		"found": true,
		"cells": indices,
		"cost":  path.Cost,
		"turns": path.Turns,
	})
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	index, err := strconv.Atoi(q.Get("cell"))
	if err != nil {
		http.Error(w, "usage: /api/v1/visible?cell=&radius=", http.StatusBadRequest)
		return
	}
	radius := navigation.DefaultVisionRange
	if v := q.Get("radius"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxVisionRadius {
			http.Error(w, fmt.Sprintf("radius must be 0..%d", maxVisionRadius), http.StatusBadRequest)
			return
		}
		radius = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	origin := s.Grid.Cell(index)
	if origin == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}
	visible := s.Paths.VisibleCells(origin, radius)
	indices := make([]int, len(visible))
	for i, c := range visible {
		indices[i] = c.Index()
	}
	writeJSON(w, map[string]any{"cell": index, "radius": radius, "cells": indices})
}

// handleRuns lists recent runs from the ledger.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "run ledger disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs", "error", err)
		http.Error(w, "ledger error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
