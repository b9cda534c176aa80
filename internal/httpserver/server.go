package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fdg312/bioboard/internal/auth"
	"github.com/fdg312/bioboard/internal/catalog"
	"github.com/fdg312/bioboard/internal/config"
	"github.com/fdg312/bioboard/internal/forecast"
	"github.com/fdg312/bioboard/internal/logging"
	"github.com/fdg312/bioboard/internal/metrics"
	"github.com/fdg312/bioboard/internal/nutrition"
	"github.com/fdg312/bioboard/internal/recommendations"
	"github.com/fdg312/bioboard/internal/recommender"
	"github.com/fdg312/bioboard/internal/reports"
	"github.com/fdg312/bioboard/internal/storage"
	"github.com/fdg312/bioboard/internal/workouts"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// Deps — зависимости, собранные в cmd/api
type Deps struct {
	// Engine may be nil; meal endpoints then answer 503.
	Engine        *recommender.Engine
	CatalogSource catalog.Source
	Storage       storage.MealsStorage
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	deps           Deps
	authMiddleware *auth.Middleware
	httpServer     *http.Server
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		deps:   deps,
	}
	s.routes()
	return s
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.handle("/healthz", http.HandlerFunc(s.handleHealthz))

	if s.config.MetricsEnabled {
		s.mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Auth API
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	s.handle("POST /v1/auth/dev", http.HandlerFunc(authHandler.HandleDevAuth))

	// Meals API
	mealsHandler := recommendations.NewHandler(
		recommendations.NewService(s.deps.Engine),
		reports.NewGenerator(),
	)
	s.handle("POST /v1/meals/recommendations", http.HandlerFunc(mealsHandler.HandleRecommend))
	s.handle("POST /v1/meals/recommendations/export", http.HandlerFunc(mealsHandler.HandleExport))
	s.handle("GET /v1/meals/similar", http.HandlerFunc(mealsHandler.HandleSimilar))
	s.handle("GET /v1/meals/catalog", http.HandlerFunc(mealsHandler.HandleCatalog))

	// Calculators
	nutritionHandler := nutrition.NewHandler(nutrition.NewService())
	s.handle("POST /v1/nutrition/targets", http.HandlerFunc(nutritionHandler.HandleTargets))

	workoutHandlers := workouts.NewHandlers(workouts.NewService())
	s.handle("POST /v1/workouts/plan", http.HandlerFunc(workoutHandlers.HandlePlan))

	forecastHandler := forecast.NewHandler(forecast.NewService())
	s.handle("POST /v1/progress/forecast", http.HandlerFunc(forecastHandler.HandleForecast))
}

// handle registers h and records request metrics under the route pattern,
// so path parameters never leak into label values.
func (s *Server) handle(pattern string, h http.Handler) {
	route := pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		route = path
	}

	s.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		h.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Method, route, rec.code(), time.Since(start))
	}))
}

// Handler builds the middleware chain (outermost first):
// request id → access log → CORS → rate limit → auth → router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		handler = s.authMiddleware.Handler(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	handler = AccessLogMiddleware(handler)
	return RequestIDMiddleware(handler)
}

type healthResponse struct {
	Status  string `json:"status"`
	Catalog string `json:"catalog"`
	Meals   int    `json:"meals"`
	Source  string `json:"source,omitempty"`
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	resp := healthResponse{Status: "ok", Catalog: "unavailable"}
	if n := s.deps.Engine.Len(); n > 0 {
		resp.Catalog = "ready"
		resp.Meals = n
		resp.Source = string(s.deps.CatalogSource)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Start запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logging.Info().
		Str("addr", addr).
		Str("catalog", string(s.deps.CatalogSource)).
		Int("meals", s.deps.Engine.Len()).
		Msg("HTTP server listening")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.deps.Storage != nil {
		return s.deps.Storage.Close()
	}
	return nil
}
