package monitoring

import (
	"context"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	checkTimeout = 5 * time.Second
)

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

type HealthCheckFunc func(ctx context.Context) error

// HealthChecker caches the outcome of named checks. Probes read the cached
// results; RunChecks refreshes them.
type HealthChecker struct {
	mu      sync.RWMutex
	funcs   map[string]HealthCheckFunc
	results map[string]HealthCheck
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		funcs:   make(map[string]HealthCheckFunc),
		results: make(map[string]HealthCheck),
	}
}

// Register adds a check and runs it once so the first probe has a result.
func (h *HealthChecker) Register(ctx context.Context, name string, checkFunc HealthCheckFunc) {
	h.mu.Lock()
	h.funcs[name] = checkFunc
	h.mu.Unlock()

	h.store(runCheck(ctx, name, checkFunc))
}

// RunChecks re-runs every registered check.
func (h *HealthChecker) RunChecks(ctx context.Context) map[string]HealthCheck {
	h.mu.RLock()
	funcs := make(map[string]HealthCheckFunc, len(h.funcs))
	for name, fn := range h.funcs {
		funcs[name] = fn
	}
	h.mu.RUnlock()

	for name, fn := range funcs {
		h.store(runCheck(ctx, name, fn))
	}
	return h.Results()
}

func (h *HealthChecker) Results() map[string]HealthCheck {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make(map[string]HealthCheck, len(h.results))
	for name, check := range h.results {
		results[name] = check
	}
	return results
}

func (h *HealthChecker) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, check := range h.results {
		if check.Status != StatusHealthy {
			return false
		}
	}
	return true
}

func (h *HealthChecker) store(check HealthCheck) {
	h.mu.Lock()
	h.results[check.Name] = check
	h.mu.Unlock()
}

func runCheck(ctx context.Context, name string, checkFunc HealthCheckFunc) HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	check := HealthCheck{Name: name, Status: StatusHealthy, LastRun: time.Now()}
	if err := checkFunc(ctx); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}
