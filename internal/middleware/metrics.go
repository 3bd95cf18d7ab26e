package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
)

// unmatchedRoute labels requests that hit no registered route so scanners
// cannot grow the path label without bound.
const unmatchedRoute = "unmatched"

// Metrics records the duration and status of every request under its route
// template. Health and scrape endpoints given in skip are left out.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[strings.TrimSpace(path)] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if _, ok := skipped[route]; ok && route != "" {
			return
		}
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
