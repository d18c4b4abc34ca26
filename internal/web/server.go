package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/agent"
	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Deps are the collaborators the web server drives.
type Deps struct {
	Editor  *ops.Editor
	DB      *sql.DB
	Config  *config.Config
	Logger  *zap.Logger
	Version string
}

// NewHandlers builds route handlers over deps.
func NewHandlers(deps Deps) (*Handlers, error) {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	renderer, err := NewRenderer(templateSub, deps.Version, deps.Logger)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		editor:   deps.Editor,
		bridge:   agent.NewBridge(deps.Editor, deps.Logger),
		db:       deps.DB,
		cfg:      deps.Config,
		renderer: renderer,
		logger:   deps.Logger,
	}, nil
}

// Routes registers every route on a new mux wrapped with security headers.
func (h *Handlers) Routes() (http.Handler, error) {
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/floorplan", http.StatusFound)
	})
	mux.HandleFunc("GET /floorplan", h.HandleFloorplan)
	mux.HandleFunc("GET /floorplan/context", h.HandleContext)
	mux.HandleFunc("GET /commands", h.HandleCommands)
	mux.HandleFunc("POST /invocations", h.HandleInvocations)
	mux.HandleFunc("GET /floorplans", h.HandleList)
	mux.HandleFunc("POST /floorplans", h.HandleSave)
	mux.HandleFunc("POST /floorplans/{id}/open", h.HandleOpen)
	mux.HandleFunc("DELETE /floorplans/{id}", h.HandleDelete)
	mux.HandleFunc("GET /ws", h.HandleGestures)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return securityHeaders(mux), nil
}

// NewServer creates the HTTP server for the floorplan editor.
func NewServer(deps Deps, bind string, port int) (*http.Server, error) {
	h, err := NewHandlers(deps)
	if err != nil {
		return nil, err
	}
	handler, err := h.Routes()
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *zap.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("floorplan editor listening", zap.String("url", "http://"+srv.Addr))
	if strings.HasPrefix(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
