package monitoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatsFunc contributes a named section to the /metrics response.
type StatsFunc func() map[string]interface{}

// Monitor serves the operational endpoints.
type Monitor struct {
	metrics *Metrics
	health  *HealthChecker
	stats   map[string]StatsFunc
}

func NewMonitor(metrics *Metrics, health *HealthChecker) *Monitor {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if health == nil {
		health = NewHealthChecker()
	}
	return &Monitor{
		metrics: metrics,
		health:  health,
		stats:   make(map[string]StatsFunc),
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

func (m *Monitor) Health() *HealthChecker {
	return m.health
}

// AddStats is not safe to call once the server is running.
func (m *Monitor) AddStats(name string, fn StatsFunc) {
	m.stats[name] = fn
}

func (m *Monitor) MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"application": m.metrics.Snapshot(),
			"system":      GetSystemMetrics(m.metrics.Uptime()),
			"timestamp":   time.Now(),
		}
		for name, fn := range m.stats {
			response[name] = fn()
		}

		c.JSON(http.StatusOK, response)
	}
}

func (m *Monitor) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		overallStatus := StatusHealthy
		status := http.StatusOK
		if !m.health.Healthy() {
			overallStatus = StatusUnhealthy
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":    overallStatus,
			"timestamp": time.Now(),
			"checks":    m.health.Results(),
			"uptime":    m.metrics.Uptime().String(),
		})
	}
}

func (m *Monitor) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.health.Healthy() {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ready",
				"timestamp": time.Now(),
			})
			return
		}

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"timestamp": time.Now(),
		})
	}
}

func (m *Monitor) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"timestamp": time.Now(),
			"uptime":    m.metrics.Uptime().String(),
		})
	}
}
