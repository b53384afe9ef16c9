package router

import (
	"github.com/gin-gonic/gin"
	"github.com/smartfarm/backend/internal/interfaces/http/handler"
)

// Handlers holds every HTTP handler exposed by the farm API
type Handlers struct {
	Auth   *handler.AuthHandler
	Field  *handler.FieldHandler
	Sensor *handler.SensorHandler
	Health *handler.HealthHandler
}

// FarmRoutes builds the farm API route groups. authMiddleware runs only on
// the public auth endpoints (typically a rate limiter); nil entries are
// skipped.
func FarmRoutes(h Handlers, authMiddleware ...gin.HandlerFunc) []RouteRegistrar {
	authGroup := NewDomainGroup("auth", "/auth")
	for _, mw := range authMiddleware {
		if mw != nil {
			authGroup.Use(mw)
		}
	}
	authGroup.
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login)

	fieldGroup := NewDomainGroup("fields", "/fields").
		GET("", h.Field.List).
		POST("", h.Field.Create).
		GET("/:id", h.Field.Get).
		PUT("/:id", h.Field.Update).
		DELETE("/:id", h.Field.Delete)

	sensorGroup := NewDomainGroup("sensors", "/sensors").
		POST("", h.Sensor.Record).
		GET("/:fieldId", h.Sensor.List).
		GET("/:fieldId/latest", h.Sensor.Latest)

	registrars := []RouteRegistrar{authGroup, fieldGroup, sensorGroup}
	if h.Health != nil {
		registrars = append(registrars, NewDomainGroup("health", "").GET("/health", h.Health.Check))
	}
	return registrars
}
