package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// queryParam returns the first non-empty query value among names.
func queryParam(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(c.Query(n)); v != "" {
			return v
		}
	}
	return ""
}
