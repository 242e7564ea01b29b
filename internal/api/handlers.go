package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bdget/internal/monitoring"
	"bdget/internal/service"
)

const appName = "bdget"

// Handlers translates HTTP requests into service calls and results into
// response bodies. All resilience decisions live in the service layer.
type Handlers struct {
	log       *zap.Logger
	svc       *service.Service
	metrics   *monitoring.Metrics
	version   string
	startTime time.Time
}

func NewHandlers(log *zap.Logger, svc *service.Service, metrics *monitoring.Metrics, version string) *Handlers {
	return &Handlers{
		log:       log,
		svc:       svc,
		metrics:   metrics,
		version:   version,
		startTime: time.Now(),
	}
}

func (h *Handlers) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "API funcionando correctamente",
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Hello(c *gin.Context) {
	name := c.DefaultQuery("name", "Mundo")

	c.JSON(http.StatusOK, gin.H{
		"greeting":  "Hola, " + name + "!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Resilient guards the backend call with the circuit breaker.
func (h *Handlers) Resilient(c *gin.Context) {
	h.guardedCall(c, h.svc.CallResilient)
}

// Retry guards the backend call with the retry policy.
func (h *Handlers) Retry(c *gin.Context) {
	h.guardedCall(c, h.svc.CallWithRetry)
}

// Combined applies circuit breaker and retry together.
func (h *Handlers) Combined(c *gin.Context) {
	h.guardedCall(c, h.svc.CallCombined)
}

func (h *Handlers) guardedCall(c *gin.Context, call func(context.Context, bool) (service.Result, error)) {
	shouldFail, err := strconv.ParseBool(c.DefaultQuery("shouldFail", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shouldFail must be a boolean"})
		return
	}

	result, err := call(c.Request.Context(), shouldFail)
	if err != nil {
		// Only cancellation reaches here; failures degrade to the fallback.
		h.log.Warn("call abandoned", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	if result.Degraded {
		h.metrics.FallbacksTotal.Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"result":              result.Message,
		"degraded":            result.Degraded,
		"circuitBreakerState": result.BreakerState,
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) BreakerStatus(c *gin.Context) {
	snapshot := h.svc.BreakerMetrics()

	c.JSON(http.StatusOK, gin.H{
		"name":            snapshot.Name,
		"state":           snapshot.State.String(),
		"successfulCalls": snapshot.SuccessCount,
		"failedCalls":     snapshot.FailureCount,
		"failureRate":     snapshot.FailureRate,
		"retry":           h.svc.RetryMetrics(),
	})
}

func (h *Handlers) BreakerReset(c *gin.Context) {
	h.svc.ResetBreaker()

	c.JSON(http.StatusOK, gin.H{
		"message": "circuit breaker reset",
		"state":   h.svc.BreakerState(),
	})
}

func (h *Handlers) Echo(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"echo":      payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"application":  appName,
		"version":      h.version,
		"description":  "Microservicio de demostración de patrones de resiliencia",
		"uptime":       time.Since(h.startTime).String(),
		"breakerState": h.svc.BreakerState(),
		"retryMetrics": h.svc.RetryMetrics(),
	})
}
