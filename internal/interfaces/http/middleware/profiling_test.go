package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingLabels(t *testing.T) {
	labelsSeen := map[string]string{}
	record := func(c *gin.Context) {
		for _, key := range []string{"route", "method", "controller"} {
			v, _ := pprof.Label(c.Request.Context(), key)
			labelsSeen[key] = v
		}
		c.Status(http.StatusOK)
	}

	r := gin.New()
	r.Use(ProfilingLabels("/health"))
	r.GET("/api/v1/sensors/:fieldId/latest", record)
	r.GET("/health", record)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sensors/f-1/latest", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		"route":      "/api/v1/sensors/:fieldId/latest",
		"method":     http.MethodGet,
		"controller": "sensors",
	}, labelsSeen)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, labelsSeen["route"])
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/fields":           "fields",
		"/api/v1/fields/:id":       "fields",
		"/api/v2/sensors/:fieldId": "sensors",
		"/health":                  "health",
		"/api/v1/:farm/fields":     "fields",
		"":                         "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}
