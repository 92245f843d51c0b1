package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"donationtracker/internal/domain"
	"donationtracker/internal/middleware"
)

// DonationService is the store-facing contract the handlers depend on.
type DonationService interface {
	List(ctx context.Context) ([]domain.Donation, error)
	Get(ctx context.Context, id string) (domain.Donation, bool, error)
	Create(ctx context.Context, draft domain.DonationDraft) (domain.Donation, error)
	Update(ctx context.Context, id string, patch domain.DonationPatch) (domain.Donation, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (domain.Statistics, error)
}

// Options configures an App.
type Options struct {
	Env    string
	Logger zerolog.Logger
	// ExposeErrors echoes internal error text in 500 responses.
	ExposeErrors bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type App struct {
	Donations    DonationService
	Logger       zerolog.Logger
	Env          string
	ExposeErrors bool
	StartedAt    time.Time

	now      func() time.Time
	validate *validator.Validate
}

func NewApp(donations DonationService, opts Options) *App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &App{
		Donations:    donations,
		Logger:       opts.Logger,
		Env:          opts.Env,
		ExposeErrors: opts.ExposeErrors,
		StartedAt:    now(),
		now:          now,
		validate:     newValidator(now),
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string, details any) {
	a.json(w, code, errorResponse{Error: msg, Details: details})
}

// internalError logs err and answers with an opaque 500.
func (a *App) internalError(w http.ResponseWriter, r *http.Request, err error) {
	a.Logger.Error().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")

	body := errorResponse{Error: "Internal server error"}
	if a.ExposeErrors {
		body.Message = err.Error()
	}
	a.json(w, http.StatusInternalServerError, body)
}

// NotFound answers unmatched routes and methods.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusNotFound, errorResponse{
		Error:   "Not found",
		Message: "Route " + r.Method + " " + r.URL.Path + " not found",
	})
}
