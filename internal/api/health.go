package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/logger"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Health states
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DependencyHealth is the outcome of one dependency check
type DependencyHealth struct {
	Status    string  `json:"status"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// ServiceHealth is the body of GET /health
type ServiceHealth struct {
	Service       string                      `json:"service"`
	Status        string                      `json:"status"`
	Checks        map[string]DependencyHealth `json:"checks"`
	UptimeSeconds float64                     `json:"uptime_seconds"`
}

// HealthChecker checks the store and optional dependencies. A failing store makes the
// service unhealthy; any other failing dependency only degrades it.
type HealthChecker struct {
	service   string
	store     Pinger
	optional  map[string]Pinger
	timeout   time.Duration
	startTime time.Time
}

// NewHealthChecker creates a health checker for the given store
func NewHealthChecker(service string, store Pinger) *HealthChecker {
	return &HealthChecker{
		service:   service,
		store:     store,
		optional:  make(map[string]Pinger),
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// WithDependency adds a dependency whose failure degrades the service
func (h *HealthChecker) WithDependency(name string, p Pinger) *HealthChecker {
	h.optional[name] = p
	return h
}

func (h *HealthChecker) check(ctx context.Context, p Pinger) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	result := DependencyHealth{
		Status:    StatusHealthy,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result
}

// Check runs every check concurrently
func (h *HealthChecker) Check(ctx context.Context) ServiceHealth {
	checks := make(map[string]DependencyHealth, len(h.optional)+1)
	var wg sync.WaitGroup
	var mu sync.Mutex

	run := func(name string, p Pinger) {
		defer wg.Done()
		result := h.check(ctx, p)

		mu.Lock()
		checks[name] = result
		mu.Unlock()

		if result.Status != StatusHealthy {
			logger.Warn(ctx).
				Str("dependency", name).
				Str("error", result.Error).
				Msg("Health check failed")
		}
	}

	wg.Add(1 + len(h.optional))
	go run("database", h.store)
	for name, p := range h.optional {
		go run(name, p)
	}
	wg.Wait()

	status := StatusHealthy
	for name, c := range checks {
		if c.Status == StatusHealthy {
			continue
		}
		if name == "database" {
			status = StatusUnhealthy
			break
		}
		status = StatusDegraded
	}

	return ServiceHealth{
		Service:       h.service,
		Status:        status,
		Checks:        checks,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Pings the store and optional dependencies. 503 when the store is unreachable.
// @Tags Health
// @Produce json
// @Success 200 {object} ServiceHealth
// @Failure 503 {object} ServiceHealth
// @Router /health [get]
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Check(r.Context())
	status := http.StatusOK
	if health.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, health)
}
