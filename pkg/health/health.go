// Package health runs component checks and serves liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"storefront-cms/pkg/logging"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusUnknown   HealthStatus = "unknown"
)

// ComponentHealth represents the health of a single component
type ComponentHealth struct {
	Name        string         `json:"name"`
	Status      HealthStatus   `json:"status"`
	Message     string         `json:"message,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// SystemHealth represents the overall system health
type SystemHealth struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     time.Duration              `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthChecker defines the interface for health check functions
type HealthChecker interface {
	Check(ctx context.Context) ComponentHealth
	Name() string
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) ComponentHealth
}

func (c checkFunc) Name() string                              { return c.name }
func (c checkFunc) Check(ctx context.Context) ComponentHealth { return c.fn(ctx) }

// NewHealthCheckFunc adapts fn to a HealthChecker.
func NewHealthCheckFunc(name string, fn func(ctx context.Context) ComponentHealth) HealthChecker {
	return checkFunc{name: name, fn: fn}
}

// NewPingChecker reports unhealthy whenever ping fails, e.g. the event store.
func NewPingChecker(name string, ping func(ctx context.Context) error) HealthChecker {
	return NewHealthCheckFunc(name, func(ctx context.Context) ComponentHealth {
		start := time.Now()
		res := ComponentHealth{Name: name, Status: HealthStatusHealthy, LastChecked: start}
		if err := ping(ctx); err != nil {
			res.Status = HealthStatusUnhealthy
			res.Message = "ping failed"
			res.Error = err.Error()
		}
		res.Duration = time.Since(start)
		return res
	})
}

// NewCatalogChecker is unhealthy while the catalog holds no hotels.
func NewCatalogChecker(name string, size func() int) HealthChecker {
	return NewHealthCheckFunc(name, func(ctx context.Context) ComponentHealth {
		n := size()
		res := ComponentHealth{
			Name:        name,
			Status:      HealthStatusHealthy,
			LastChecked: time.Now(),
			Metadata:    map[string]any{"hotels": n},
		}
		if n == 0 {
			res.Status = HealthStatusUnhealthy
			res.Message = "catalog is empty"
		}
		return res
	})
}

// NewCapacityChecker degrades once used reaches 90% of limit. A limit <= 0
// means unbounded.
func NewCapacityChecker(name string, used func() int, limit int) HealthChecker {
	return NewHealthCheckFunc(name, func(ctx context.Context) ComponentHealth {
		n := used()
		res := ComponentHealth{
			Name:        name,
			Status:      HealthStatusHealthy,
			LastChecked: time.Now(),
			Metadata:    map[string]any{"used": n, "limit": limit},
		}
		if limit > 0 && n*10 >= limit*9 {
			res.Status = HealthStatusDegraded
			res.Message = fmt.Sprintf("%d of %d in use", n, limit)
		}
		return res
	})
}

// HealthManager manages health checks for all system components
type HealthManager struct {
	mu        sync.RWMutex
	checkers  map[string]HealthChecker
	startTime time.Time
	version   string
	timeout   time.Duration
	logger    *logging.ComponentLogger
}

// NewHealthManager creates a manager; timeout bounds each individual check.
func NewHealthManager(version string, timeout time.Duration, logger *logging.Logger) *HealthManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HealthManager{
		checkers:  make(map[string]HealthChecker),
		startTime: time.Now(),
		version:   version,
		timeout:   timeout,
		logger:    logger.WithComponent("health"),
	}
}

// RegisterChecker registers a health checker
func (hm *HealthManager) RegisterChecker(checker HealthChecker) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.checkers[checker.Name()] = checker
	hm.logger.Debug("registered health checker", logging.String("checker", checker.Name()))
}

// CheckAll runs every check concurrently.
func (hm *HealthManager) CheckAll(ctx context.Context) SystemHealth {
	hm.mu.RLock()
	checkers := make([]HealthChecker, 0, len(hm.checkers))
	for _, c := range hm.checkers {
		checkers = append(checkers, c)
	}
	hm.mu.RUnlock()

	results := make(chan ComponentHealth, len(checkers))
	var wg sync.WaitGroup
	for _, checker := range checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, hm.timeout)
			defer cancel()
			results <- c.Check(checkCtx)
		}(checker)
	}
	wg.Wait()
	close(results)

	components := make(map[string]ComponentHealth, len(checkers))
	for res := range results {
		components[res.Name] = res
	}
	status := overall(components)
	if status != HealthStatusHealthy {
		hm.logger.Warn("health check not healthy", logging.String("status", string(status)),
			logging.Strings("failing", failing(components)))
	}
	return SystemHealth{
		Status:     status,
		Timestamp:  time.Now(),
		Version:    hm.version,
		Uptime:     time.Since(hm.startTime),
		Components: components,
	}
}

// overall is unhealthy if any component is, degraded if any component is,
// and unknown with no components.
func overall(components map[string]ComponentHealth) HealthStatus {
	if len(components) == 0 {
		return HealthStatusUnknown
	}
	status := HealthStatusHealthy
	for _, c := range components {
		switch c.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		case HealthStatusUnknown:
			if status == HealthStatusHealthy {
				status = HealthStatusUnknown
			}
		}
	}
	return status
}

func failing(components map[string]ComponentHealth) []string {
	var out []string
	for name, c := range components {
		if c.Status != HealthStatusHealthy {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Register mounts /healthz, /livez and /readyz on r.
func (hm *HealthManager) Register(r *mux.Router) {
	r.HandleFunc("/healthz", hm.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/livez", hm.handleLiveness).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hm.handleReadiness).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (hm *HealthManager) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := hm.CheckAll(r.Context())
	status := http.StatusOK
	if h.Status == HealthStatusUnhealthy || h.Status == HealthStatusUnknown {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, h)
}

func (hm *HealthManager) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "alive",
		"uptime": time.Since(hm.startTime).String(),
	})
}

// handleReadiness is ready while healthy or degraded.
func (hm *HealthManager) handleReadiness(w http.ResponseWriter, r *http.Request) {
	h := hm.CheckAll(r.Context())
	ready := h.Status == HealthStatusHealthy || h.Status == HealthStatusDegraded
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":    h.Status,
		"ready":     ready,
		"timestamp": h.Timestamp,
	})
}
