package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/metrics"
)

// RouterOptions configures the HTTP middleware stack.
type RouterOptions struct {
	APIKeys           []string
	AllowedOrigins    []string
	RequestsPerMinute int
}

// NewRouter mounts the API routes with the middleware stack.
func NewRouter(s *Server, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(logger))
	r.Use(metrics.Middleware())
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(RateLimit(opts.RequestsPerMinute))
	r.Use(BearerAuthMiddleware(opts.APIKeys))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"})
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.HandleFunc("/embed", s.Embed)
		r.Post("/recommendations", s.Recommend)
		r.Post("/index/reindex", s.Reindex)
	})

	return r
}
