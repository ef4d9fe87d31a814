package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/catpages/internal/buildcache"
	"git.home.luguber.info/inful/catpages/internal/logfields"
)

// recentBuildsLimit caps the /builds listing.
const recentBuildsLimit = 20

// ServerOptions configures the preview HTTP server.
type ServerOptions struct {
	Addr      string
	OutputDir string

	// Store backs the /builds endpoints. Optional.
	Store buildcache.Store

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	Logger *slog.Logger
}

// Server serves the generated site plus a small status API.
type Server struct {
	Addr   string
	router *chi.Mux
	server *http.Server
	opts   ServerOptions
	status *buildStatus
}

// NewServer creates a new preview server.
func NewServer(opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		Addr:   opts.Addr,
		router: chi.NewRouter(),
		opts:   opts,
		status: &buildStatus{},
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the router (for testing).
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.opts.Logger))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/builds", s.handleListBuilds)
	s.router.Get("/builds/{id}", s.handleGetBuild)
	if s.opts.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	s.router.Get("/*", s.handleSite)
}

// Start listens in the background. Listen errors are returned directly;
// later serve errors are logged.
func (s *Server) Start() error {
	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", s.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.opts.Logger.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

type healthResponse struct {
	Status    string `json:"status"`
	LastError string `json:"last_error,omitempty"`
	Built     bool   `json:"built"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	hasError, err, built := s.status.get()
	resp := healthResponse{Status: "healthy", Built: built}
	if hasError {
		resp.Status = "degraded"
		resp.LastError = err.Error()
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: resp})
}

type buildResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	Duration    int64     `json:"duration_ms"`
	Incremental bool      `json:"incremental"`
	Pages       int       `json:"pages"`
	Outputs     int       `json:"outputs"`
	Error       string    `json:"error,omitempty"`
}

func toBuildResponse(rec buildcache.BuildRecord) buildResponse {
	return buildResponse{
		ID:          rec.ID,
		Status:      string(rec.Status),
		StartedAt:   rec.StartedAt,
		Duration:    rec.FinishedAt.Sub(rec.StartedAt).Milliseconds(),
		Incremental: rec.Incremental,
		Pages:       rec.Pages,
		Outputs:     rec.Outputs,
		Error:       rec.Error,
	}
}

func (s *Server) recentBuilds(r *http.Request) ([]buildResponse, bool) {
	if s.opts.Store == nil {
		return nil, false
	}
	recs, err := s.opts.Store.RecentBuilds(r.Context(), recentBuildsLimit)
	if err != nil {
		s.opts.Logger.Warn("Failed to list builds", logfields.Error(err))
		return nil, false
	}
	out := make([]buildResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toBuildResponse(rec))
	}
	return out, true
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	builds, ok := s.recentBuilds(r)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, Response{Error: "build history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: builds})
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	builds, ok := s.recentBuilds(r)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, Response{Error: "build history unavailable"})
		return
	}
	id := chi.URLParam(r, "id")
	for _, b := range builds {
		if b.ID == id {
			writeJSON(w, http.StatusOK, Response{Success: true, Data: b})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, Response{Error: "build not found"})
}

// handleSite serves the output directory. Extensionless paths resolve to
// their .html page and directories to their index.html.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	if full, ok := s.resolve(clean); ok {
		http.ServeFile(w, r, full)
		return
	}
	if notFound, ok := s.resolve("/404.html"); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		// #nosec G304 -- resolved inside the output directory.
		if data, err := os.ReadFile(notFound); err == nil {
			_, _ = w.Write(data)
		}
		return
	}
	http.NotFound(w, r)
}

func (s *Server) resolve(clean string) (string, bool) {
	base := filepath.Join(filepath.FromSlash(s.opts.OutputDir), filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	candidates := []string{base}
	if path.Ext(clean) == "" {
		candidates = append(candidates, base+".html", filepath.Join(base, "index.html"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// requestLogger logs each request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				logfields.Method(r.Method),
				logfields.URL(r.URL.Path),
				logfields.Status(ww.Status()),
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		})
	}
}
