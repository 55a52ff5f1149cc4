package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/provdelegation/portal/api/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// the label set bounded.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies per registered route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
