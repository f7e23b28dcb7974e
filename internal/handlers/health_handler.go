package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Healthz pings the database and reports uptime.
func (h *Handler) Healthz(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}
