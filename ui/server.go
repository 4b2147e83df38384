package ui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ballistix/app"
	"ballistix/internal"
	"ballistix/internal/config"
	"ballistix/internal/metrics"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps spreadsheet uploads
const maxUploadBytes = 10 << 20

// Server is the HTTP surface: a JSON API on gin with the HTML app mounted behind it
type Server struct {
	router  *gin.Engine
	service *app.AppraisalService
	presets *config.PresetStore
	metrics *metrics.Recorder
	html    *App
	logger  *internal.Logger
}

// ServerDeps are the collaborators a Server needs
type ServerDeps struct {
	Service *app.AppraisalService
	Presets *config.PresetStore // defaults to the built-in presets
	Metrics *metrics.Recorder   // optional; /metrics is only served when set
	Logger  *internal.Logger
}

// NewServer creates the web server and registers every route
func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("appraisal service is required")
	}
	if deps.Presets == nil {
		deps.Presets = config.StaticPresetStore(config.DefaultPresets())
	}
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	html, err := NewApp(deps.Service, deps.Presets)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  gin.New(),
		service: deps.Service,
		presets: deps.Presets,
		metrics: deps.Metrics,
		html:    html,
		logger:  logger.WithComponent("Server"),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the API routes; everything else falls through to the HTML app
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/presets", s.handlePresets)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/analyze/upload", s.handleAnalyzeUpload)
	}

	s.router.NoRoute(gin.WrapH(s.html.Handler()))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
