package handlers

import (
	"net/http"

	"homeserve/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the latest dependency snapshot. It answers 503 while Mongo
// or any Redis client is down.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	healthy := status.CheckedAt.IsZero() || status.Mongo
	for _, ok := range status.Redis {
		healthy = healthy && ok
	}

	code, label := http.StatusOK, "ok"
	switch {
	case status.CheckedAt.IsZero():
		label = "starting"
	case !healthy:
		code, label = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{"status": label, "checks": status})
}
