package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"components": gin.H{
			"circuitBreaker": gin.H{
				"status": "UP",
				"state":  h.svc.BreakerState(),
			},
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
