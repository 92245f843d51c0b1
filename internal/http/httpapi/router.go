package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"donationtracker/internal/http/handlers"
	"donationtracker/internal/metrics"
	"donationtracker/internal/middleware"
)

// Config controls the middleware stack around the handlers.
type Config struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
	// RateLimitPerMin of zero disables rate limiting.
	RateLimitPerMin int
	ExposeErrors    bool
	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(app *handlers.App, cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Logger(cfg.Logger),
		middleware.Recoverer(cfg.Logger, cfg.ExposeErrors),
		metrics.InstrumentHandler,
		middleware.CORS(cfg.CORSAllowedOrigins),
	)
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.NotFound(app.NotFound)
	r.MethodNotAllowed(app.NotFound)

	r.Get("/health", app.Health)
	r.Get("/api", app.APIInfo)
	r.Get("/api/openapi.json", app.OpenAPIJSON)
	r.Get("/api/docs", app.OpenAPIDocs)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// The web client talks to /api/donations; /donations is kept as a bare alias.
	r.Route("/api/donations", donationRoutes(app))
	r.Route("/donations", donationRoutes(app))

	return r
}

func donationRoutes(app *handlers.App) func(chi.Router) {
	return func(r chi.Router) {
		r.NotFound(app.NotFound)
		r.MethodNotAllowed(app.NotFound)

		r.Get("/", app.DonationsList)
		r.Post("/", app.DonationsCreate)
		r.Get("/stats", app.StatsSummary)
		r.Get("/types", app.DonationTypes)
		r.Get("/{id}", app.DonationsGet)
		r.Put("/{id}", app.DonationsUpdate)
		r.Delete("/{id}", app.DonationsDelete)
	}
}
