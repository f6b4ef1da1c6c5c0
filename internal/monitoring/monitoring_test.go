package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMonitorRouter(monitor *Monitor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(monitor.Metrics().Middleware())
	router.GET("/health", monitor.HealthHandler())
	router.GET("/ready", monitor.ReadinessHandler())
	router.GET("/live", monitor.LivenessHandler())
	router.GET("/metrics", monitor.MetricsHandler())
	router.GET("/tasks/:taskId", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": nil})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "boom"})
	})
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	monitor := NewMonitor(nil, nil)
	router := setupMonitorRouter(monitor)

	get(router, "/tasks/1")
	get(router, "/tasks/2")
	get(router, "/boom")
	get(router, "/nowhere")

	snapshot := monitor.Metrics().Snapshot()
	assert.Equal(t, int64(4), snapshot.RequestCount)
	assert.Equal(t, int64(0), snapshot.ActiveRequests)
	assert.Equal(t, int64(2), snapshot.ErrorCount)
	assert.Equal(t, int64(2), snapshot.Endpoints["GET /tasks/:taskId"])
	assert.Equal(t, int64(1), snapshot.Endpoints["GET /nowhere"])
	assert.Equal(t, int64(2), snapshot.StatusCodes["OK"])
	assert.Equal(t, int64(1), snapshot.StatusCodes["Not Found"])
}

func TestMetricsMiddlewareReleasesActiveRequestOnPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics()
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(metrics.Middleware())
	router.GET("/panic", func(c *gin.Context) {
		panic("handler failed")
	})

	w := get(router, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, int64(0), metrics.Snapshot().ActiveRequests)
}

func TestSnapshotIsACopy(t *testing.T) {
	metrics := NewMetrics()
	router := setupMonitorRouter(NewMonitor(metrics, nil))
	get(router, "/tasks/1")

	snapshot := metrics.Snapshot()
	snapshot.Endpoints["GET /tasks/:taskId"] = 100

	assert.Equal(t, int64(1), metrics.Snapshot().Endpoints["GET /tasks/:taskId"])
}

func TestHealthChecker(t *testing.T) {
	checker := NewHealthChecker()
	var failing atomic.Bool

	checker.Register(context.Background(), "database", func(ctx context.Context) error {
		if failing.Load() {
			return errors.New("connection refused")
		}
		return nil
	})

	assert.True(t, checker.Healthy())
	assert.Equal(t, StatusHealthy, checker.Results()["database"].Status)

	failing.Store(true)
	assert.True(t, checker.Healthy(), "cached result should hold until checks re-run")

	results := checker.RunChecks(context.Background())
	assert.False(t, checker.Healthy())
	assert.Equal(t, StatusUnhealthy, results["database"].Status)
	assert.Equal(t, "connection refused", results["database"].Message)
}

func TestHealthCheckRunsWithDeadline(t *testing.T) {
	checker := NewHealthChecker()

	checker.Register(context.Background(), "redis", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		if !hasDeadline {
			return errors.New("missing deadline")
		}
		return nil
	})

	assert.True(t, checker.Healthy())
}

func TestHealthEndpoints(t *testing.T) {
	monitor := NewMonitor(nil, nil)
	router := setupMonitorRouter(monitor)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	monitor.Health().Register(context.Background(), "database", func(ctx context.Context) error {
		return errors.New("down")
	})

	w = get(router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string                 `json:"status"`
		Checks map[string]HealthCheck `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, "down", body.Checks["database"].Message)

	w = get(router, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(router, "/live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandlerIncludesStats(t *testing.T) {
	monitor := NewMonitor(nil, nil)
	monitor.AddStats("events", func() map[string]interface{} {
		return map[string]interface{}{"enabled": false}
	})
	router := setupMonitorRouter(monitor)

	w := get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "application")
	assert.Contains(t, body, "system")
	assert.Equal(t, map[string]interface{}{"enabled": false}, body["events"])
}

func TestSchedulerRefreshesHealthChecks(t *testing.T) {
	checker := NewHealthChecker()
	var runs atomic.Int32
	checker.Register(context.Background(), "counter", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	scheduler := NewScheduler()
	_, err := scheduler.ScheduleHealthChecks(checker, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, scheduler.Entries())

	scheduler.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
	scheduler.Stop()
}

func TestSchedulerRejectsNonPositiveInterval(t *testing.T) {
	scheduler := NewScheduler()

	_, err := scheduler.ScheduleInterval(0, func() {})
	assert.Error(t, err)

	_, err = scheduler.ScheduleInterval(100*time.Millisecond, func() {})
	assert.NoError(t, err, "sub-second intervals round up to one second")
}
