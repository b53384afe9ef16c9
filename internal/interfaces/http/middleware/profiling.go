package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
)

// ProfilingLabels tags CPU samples taken while serving a request with its
// route pattern, method and resource, e.g. route=/api/v1/sensors/:fieldId
// controller=sensors. Unmatched routes and skipPaths run unlabelled.
func ProfilingLabels(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skip[route] {
			c.Next()
			return
		}

		labels := map[string]string{
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelController: controllerFromRoute(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute returns the first static segment after the API
// prefix: /api/v1/fields/:id -> fields
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
