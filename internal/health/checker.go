package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// dependencyRemoteAPI is the label used for the cron service check.
const dependencyRemoteAPI = "cronjob_api"

// Pinger is satisfied by *cronjoborg.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckResult represents the health of a single dependency.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResult is the top-level health response.
type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies that the remote cron API is reachable.
//
// The remote API is rate limited, so a readiness result is reused for the
// cache TTL instead of pinging on every probe.
type Checker struct {
	api     Pinger
	logger  *slog.Logger
	gauge   *prometheus.GaugeVec
	timeout time.Duration
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	last    HealthResult
	checked time.Time
}

type Option func(*Checker)

// WithCacheTTL sets how long a readiness result is reused. Zero pings on
// every call.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Checker) { c.ttl = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// NewChecker creates a health checker and registers its Prometheus gauge.
func NewChecker(api Pinger, logger *slog.Logger, reg prometheus.Registerer, opts ...Option) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "cronjob",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	c := &Checker{
		api:     api,
		logger:  logger.With("component", "health"),
		gauge:   gauge,
		timeout: 5 * time.Second,
		ttl:     30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Liveness returns a simple "up" response if the process is running.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up"}
}

// Readiness reports the remote API's status, pinging it at most once per TTL.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.checked.IsZero() && c.now().Sub(c.checked) < c.ttl {
		return copyResult(c.last)
	}

	c.last = c.ping(ctx)
	c.checked = c.now()
	return copyResult(c.last)
}

func (c *Checker) ping(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := HealthResult{
		Status: "up",
		Checks: make(map[string]CheckResult),
	}

	if err := c.api.Ping(checkCtx); err != nil {
		c.logger.Warn("cron api health check failed", "error", err)
		result.Status = "down"
		result.Checks[dependencyRemoteAPI] = CheckResult{Status: "down", Error: err.Error()}
		c.gauge.WithLabelValues(dependencyRemoteAPI).Set(0)
	} else {
		result.Checks[dependencyRemoteAPI] = CheckResult{Status: "up"}
		c.gauge.WithLabelValues(dependencyRemoteAPI).Set(1)
	}

	return result
}

func copyResult(r HealthResult) HealthResult {
	r.Checks = maps.Clone(r.Checks)
	return r
}

func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, c.Liveness(r.Context()))
	}
}

// ReadinessHandler answers 503 while the remote API is down.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, c.Readiness(r.Context()))
	}
}

func writeResult(w http.ResponseWriter, res HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if res.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(res)
}
