// Package web serves a read-only JSON API over a level pack and its records,
// for leaderboards and level browsers outside the terminal.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels/formats"
	"github.com/vovakirdan/noctrl/internal/storage"
)

// PackSource is the level pack the API describes.
// *levels.Loader is the production implementation.
type PackSource interface {
	levels.Source
	Pack() levels.Pack
	Count() int
	Load(number int) (*core.Grid, error)
}

// Handler serves the API routes.
type Handler struct {
	pack   PackSource
	store  *storage.Store
	logger *log.Logger
}

// NewRouter configures all routes and returns the router.
// store may be nil, in which case record endpoints answer 503.
func NewRouter(pack PackSource, store *storage.Store, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{pack: pack, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/pack", h.GetPack)
		r.Get("/levels/{n}", h.GetLevel)
		r.Get("/levels/{n}/text", h.GetLevelText)
		r.Get("/levels/{n}/source", h.GetLevelSource)
		r.Get("/runs", h.ListRuns)
		r.Get("/stats", h.GetStats)
	})

	return r
}

// logRequests logs every request with its status and duration.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// packResponse describes a pack and its levels.
type packResponse struct {
	Name   string          `json:"name"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Levels []levelResponse `json:"levels"`
}

// levelResponse describes one level and its best clear.
type levelResponse struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Exits      int    `json:"exits,omitempty"`
	Items      int    `json:"items,omitempty"`
	Controls   int    `json:"controls,omitempty"`
	BestMoves  *int   `json:"best_moves,omitempty"`
	BestPlayer string `json:"best_player,omitempty"`
}

// runResponse is one entry of the run leaderboard.
type runResponse struct {
	Rank       int       `json:"rank"`
	Player     string    `json:"player"`
	StartLevel int       `json:"start_level"`
	Level      int       `json:"level"`
	Cleared    int       `json:"cleared"`
	Moves      int       `json:"moves"`
	Won        bool      `json:"won"`
	CreatedAt  time.Time `json:"created_at"`
}

// statsResponse holds aggregated pack statistics.
type statsResponse struct {
	Pack       string     `json:"pack"`
	Runs       int        `json:"runs"`
	Wins       int        `json:"wins"`
	BestClears int        `json:"best_cleared"`
	TotalMoves int64      `json:"total_moves"`
	LastPlayed *time.Time `json:"last_played,omitempty"`
}

// GetPack handles GET /api/pack
func (h *Handler) GetPack(w http.ResponseWriter, r *http.Request) {
	pack := h.pack.Pack()
	resp := packResponse{
		Name:   pack.Name,
		Width:  pack.Width,
		Height: pack.Height,
		Levels: make([]levelResponse, h.pack.Count()),
	}
	for n := range resp.Levels {
		resp.Levels[n] = levelResponse{Number: n, Title: pack.Title(n)}
	}

	if h.store != nil {
		clears, err := h.store.BestClears(pack.Name)
		if err != nil {
			h.logger.Error("cannot read best clears", "err", err)
			h.respondError(w, http.StatusInternalServerError, "Cannot read records")
			return
		}
		for _, c := range clears {
			if c.Level < len(resp.Levels) {
				moves := c.Moves
				resp.Levels[c.Level].BestMoves = &moves
				resp.Levels[c.Level].BestPlayer = c.Player
			}
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetLevel handles GET /api/levels/{n}
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.loadLevel(w, r)
	if !ok {
		return
	}

	resp := levelResponse{
		Number: grid.Number,
		Title:  grid.Title,
		Exits:  grid.Count(core.TileExit),
		Items:  len(grid.Items),
	}
	for _, ctl := range grid.Controls {
		if ctl != nil {
			resp.Controls++
		}
	}
	if h.store != nil {
		moves, found, err := h.store.BestMoves(h.pack.Pack().Name, grid.Number)
		if err != nil {
			h.logger.Error("cannot read best moves", "level", grid.Number, "err", err)
		} else if found {
			resp.BestMoves = &moves
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetLevelText handles GET /api/levels/{n}/text
func (h *Handler) GetLevelText(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.loadLevel(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Client may have gone away
	w.Write([]byte(formats.FormatText(grid)))
}

// GetLevelSource handles GET /api/levels/{n}/source
// It serves the level file as stored, without parsing it.
func (h *Handler) GetLevelSource(w http.ResponseWriter, r *http.Request) {
	n, ok := h.levelNumber(w, r)
	if !ok {
		return
	}

	rc, err := h.pack.Open(n)
	switch {
	case errors.Is(err, levels.ErrLevelNotFound):
		h.respondError(w, http.StatusNotFound, "Level not found")
		return
	case err != nil:
		h.logger.Error("cannot open level", "level", n, "err", err)
		h.respondError(w, http.StatusInternalServerError, "Cannot read level")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Debug("level source write interrupted", "level", n, "err", err)
	}
}

// levelNumber parses the {n} URL parameter.
// It writes the error response and returns false on failure.
func (h *Handler) levelNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 {
		h.respondError(w, http.StatusBadRequest, "Level must be a non-negative number")
		return 0, false
	}
	return n, true
}

// loadLevel loads the level named by the {n} URL parameter.
// It writes the error response and returns false on failure.
func (h *Handler) loadLevel(w http.ResponseWriter, r *http.Request) (*core.Grid, bool) {
	n, ok := h.levelNumber(w, r)
	if !ok {
		return nil, false
	}

	grid, err := h.pack.Load(n)
	switch {
	case errors.Is(err, levels.ErrLevelNotFound):
		h.respondError(w, http.StatusNotFound, "Level not found")
		return nil, false
	case err != nil:
		h.logger.Error("level does not load", "level", n, "err", err)
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	return grid, true
}

// ListRuns handles GET /api/runs?limit=N
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = min(parsed, 100)
	}

	runs, err := h.store.TopRuns(h.pack.Pack().Name, limit)
	if err != nil {
		h.logger.Error("cannot read runs", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Cannot read records")
		return
	}

	resp := make([]runResponse, len(runs))
	for i, run := range runs {
		resp[i] = runResponse{
			Rank:       i + 1,
			Player:     run.Player,
			StartLevel: run.StartLevel,
			Level:      run.Level,
			Cleared:    run.Cleared,
			Moves:      run.Moves,
			Won:        run.Won,
			CreatedAt:  run.CreatedAt,
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetStats handles GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	stats, err := h.store.GetPackStats(h.pack.Pack().Name)
	if err != nil {
		h.logger.Error("cannot read stats", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Cannot read records")
		return
	}

	resp := statsResponse{
		Pack:       stats.Pack,
		Runs:       stats.Runs,
		Wins:       stats.Wins,
		BestClears: stats.BestClears,
		TotalMoves: stats.TotalMoves,
	}
	if !stats.LastPlayed.IsZero() {
		resp.LastPlayed = &stats.LastPlayed
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// requireStore answers 503 when records are unavailable.
func (h *Handler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Records are unavailable")
		return false
	}
	return true
}

// respondJSON writes a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("cannot encode JSON", "err", err)
	}
}

// respondError writes an error JSON response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
