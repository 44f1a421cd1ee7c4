package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder receives one observation per finished request.
type HTTPRecorder interface {
	RecordHTTP(route, method string, status int, d time.Duration)
}

// Metrics records status and latency per route template, so /users/:username
// stays one series regardless of the username. Unmatched routes are
// grouped under "unmatched".
func Metrics(rec HTTPRecorder) gin.HandlerFunc {
	if rec == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
