package feeds

import (
	"github.com/gin-gonic/gin"

	"xyzrss/api/types"
)

// RegisterRoutes registers feed routes
// Rate limiting and response caching are applied at the group level
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /rss/xyz/:id - Synthesized RSS feed for one podcast
	router.GET("/xyz/:id", GetFeed(deps))
}
