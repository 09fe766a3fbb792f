// Package health serves liveness, readiness and status probes. Readiness
// runs every registered dependency check concurrently.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"resa/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc checks the health of a dependency, returning nil when healthy.
type CheckFunc func(ctx context.Context) error

const checkTimeout = 2 * time.Second

type Handler struct {
	startTime   time.Time
	environment string

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		checks:      make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named readiness check. Registering a name twice
// replaces the earlier check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness answers 200 whenever the process can serve HTTP.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	// LatencyMs reports how long each check took.
	LatencyMs map[string]int64 `json:"latency_ms,omitempty"`
}

// HandleReadiness answers 503 when any registered dependency is down.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := h.snapshot()

	var (
		mu       sync.Mutex
		response = ReadinessResponse{
			Status:    "ready",
			Checks:    make(map[string]string, len(checks)),
			LatencyMs: make(map[string]int64, len(checks)),
		}
		healthy = true
	)

	// Checks never return errors to the group; failures are reported per name.
	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := runCheck(r.Context(), check)
			elapsed := time.Since(start).Milliseconds()

			mu.Lock()
			defer mu.Unlock()
			response.LatencyMs[name] = elapsed
			if err != nil {
				response.Checks[name] = "down: " + err.Error()
				healthy = false
				return nil
			}
			response.Checks[name] = "up"
			return nil
		})
	}
	_ = g.Wait()

	if !healthy {
		response.Status = "not_ready"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, response)
}

type StatusResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	Environment   string   `json:"environment"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	Timestamp     string   `json:"timestamp"`
	Dependencies  []string `json:"dependencies"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	checks := h.snapshot()
	deps := make([]string, 0, len(checks))
	for name := range checks {
		deps = append(deps, name)
	}
	slices.Sort(deps)

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Dependencies:  deps,
	})
}

func (h *Handler) snapshot() map[string]CheckFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]CheckFunc, len(h.checks))
	for k, v := range h.checks {
		out[k] = v
	}
	return out
}

func runCheck(ctx context.Context, check CheckFunc) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return check(ctx)
}
