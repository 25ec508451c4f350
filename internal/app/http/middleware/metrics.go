package middleware

import (
	"strconv"
	"time"

	"tenanthub/internal/observability"

	"github.com/gin-gonic/gin"
)

// Observe records request counts and latency per route pattern.
func Observe(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
