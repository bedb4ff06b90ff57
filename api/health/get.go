package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xyzrss/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Liveness probe; reports the service status and current time.
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.HealthResponse{
			Status:    types.StatusOK,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
