package feeds

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"xyzrss/api/types"
	"xyzrss/internal/services/bridge"
	"xyzrss/pkg/errors"
)

// GetFeed returns the synthesized RSS feed for a podcast
// @Summary      Get RSS feed for a podcast
// @Description  Fetch the podcast's public page from the origin platform, extract its
// @Description  embedded data payload and synthesize a standards-compliant RSS 2.0 feed
// @Description  with iTunes extensions. Restricted episodes are omitted.
// @Tags         feeds
// @Produce      xml
// @Param        id path string true "Opaque podcast identifier from the platform's page URL" example(6021f949a789fca4eff4492c)
// @Success      200 {string} string "RSS 2.0 document"
// @Failure      400 {object} types.ErrorResponse "Invalid podcast identifier"
// @Failure      404 {object} types.ErrorResponse "Podcast not found upstream"
// @Failure      502 {object} types.ErrorResponse "Upstream unavailable or page no longer parseable"
// @Router       /rss/xyz/{id} [get]
func GetFeed(deps *types.Dependencies) gin.HandlerFunc {
	cacheTTL := deps.Config.Feed.CacheTTL

	return func(c *gin.Context) {
		podcastID, ok := types.ParsePodcastIDParam(c, "id")
		if !ok {
			return
		}

		result, err := deps.FeedBuilder.BuildFeed(c.Request.Context(), podcastID)
		if err != nil {
			code := errors.GetCode(err)
			log.Printf("[ERROR] Failed to build feed for podcast %s (%s): %v", podcastID, code, err)
			c.JSON(errors.GetHTTPCode(err), types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to build feed",
				Error:   string(code),
				Details: err.Error(),
			})
			return
		}

		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheTTL.Seconds())))
		c.Data(200, bridge.ContentType, []byte(result.XML))
	}
}
