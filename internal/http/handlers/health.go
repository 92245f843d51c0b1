package handlers

import (
	"net/http"
	"time"
)

const (
	apiName        = "Digital Aid Seattle API"
	apiVersion     = "1.0.0"
	apiDescription = "Backend API for donation management system"
)

type healthResponse struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

// Health is a liveness probe; it never touches the store.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	now := a.now()
	a.json(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Uptime:      now.Sub(a.StartedAt).Seconds(),
		Environment: a.Env,
	})
}

type apiInfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

func (a *App) APIInfo(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, apiInfoResponse{
		Name:        apiName,
		Version:     apiVersion,
		Description: apiDescription,
		Endpoints: map[string]string{
			"donations": "/api/donations",
			"health":    "/health",
			"stats":     "/api/donations/stats",
			"types":     "/api/donations/types",
			"metrics":   "/metrics",
			"openapi":   "/api/openapi.json",
			"docs":      "/api/docs",
		},
	})
}
