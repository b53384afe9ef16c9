// Package middleware provides the gin middleware of the farm API.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"github.com/smartfarm/backend/internal/infrastructure/logger"
)

// Request id keys
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength caps client-supplied request ids
	MaxRequestIDLength = 128
)

// CORS builds the CORS middleware from HTTP config. With no allowed
// origins, cross-origin requests get no CORS headers and browsers reject them.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	methods := cfg.CORSAllowMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	headers := cfg.CORSAllowHeaders
	if len(headers) == 0 {
		headers = []string{"Authorization", "Content-Type", RequestIDHeader}
	}

	corsCfg := cors.Config{
		AllowMethods:  methods,
		AllowHeaders:  headers,
		ExposeHeaders: []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	switch {
	case len(cfg.CORSAllowOrigins) == 0:
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	case len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*":
		corsCfg.AllowAllOrigins = true
	default:
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
		corsCfg.AllowCredentials = true
	}
	return cors.New(corsCfg)
}

// RequestID adds a request ID to each request, reusing the caller's
// X-Request-ID when present. The id is also attached to the context logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithRequestID(ctx, logger.FromContext(ctx), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or "" when the
// middleware did not run
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Secure adds static security headers to every response
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}
