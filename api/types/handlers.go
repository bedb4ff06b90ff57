package types

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// Handler utility functions to reduce duplication across handlers

// podcastIDPattern matches the opaque identifiers the platform uses in its
// podcast page URLs. Anything else is rejected before it reaches the
// pipeline, so the identifier can be spliced into an upstream URL safely.
var podcastIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ParsePodcastIDParam extracts and validates a podcast identifier URL
// parameter. Returns the value and sends an error response if it is missing
// or malformed.
func ParsePodcastIDParam(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)
	if id == "" || !podcastIDPattern.MatchString(id) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid " + paramName,
		})
		return "", false
	}
	return id, true
}
