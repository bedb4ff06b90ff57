package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Build variables - set from cmd at startup
var (
	Name    = "xyzrss"
	Version = "dev"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        Name,
			"version":     Version,
			"description": "RSS bridge for xiaoyuzhoufm.com podcasts",
			"status":      "running",
		})
	}
}
