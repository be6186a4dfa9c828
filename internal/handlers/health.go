package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// Pinger is anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

type healthCheck struct {
	name string
	p    Pinger
}

type HealthHandler struct {
	checks []healthCheck
	logger *slog.Logger
}

// NewHealthHandler checks storage; more components are added with WithCheck.
func NewHealthHandler(store storage.Storage, logger *slog.Logger) *HealthHandler {
	h := &HealthHandler{logger: logger}
	return h.WithCheck("storage", store)
}

// WithCheck adds a named component to the report.
func (h *HealthHandler) WithCheck(name string, p Pinger) *HealthHandler {
	h.checks = append(h.checks, healthCheck{name: name, p: p})
	sort.SliceStable(h.checks, func(i, j int) bool { return h.checks[i].name < h.checks[j].name })
	return h
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Service:    "realm-engine",
		Components: make(map[string]string, len(h.checks)),
	}
	for _, c := range h.checks {
		if err := c.p.Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", "component", c.name, "error", err)
			resp.Components[c.name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Components[c.name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, status, resp)
}
