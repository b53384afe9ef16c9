package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	farmapp "github.com/smartfarm/backend/internal/application/farm"
	"github.com/smartfarm/backend/internal/application/identity"
	"github.com/smartfarm/backend/internal/infrastructure/auth"
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"github.com/smartfarm/backend/internal/infrastructure/persistence"
	"github.com/smartfarm/backend/internal/infrastructure/persistence/models"
	"github.com/smartfarm/backend/internal/infrastructure/sensorsource"
	"github.com/smartfarm/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires real services over a private in-memory SQLite database
type testEnv struct {
	db         *gorm.DB
	router     *gin.Engine
	jwtService *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "farm-test",
	})

	log := zap.NewNop()
	users := persistence.NewGormUserRepository(db)
	fields := persistence.NewGormFieldRepository(db)
	readings := persistence.NewGormSensorReadingRepository(db)

	authHandler := NewAuthHandler(identity.NewAuthService(users, jwtService, log))
	fieldHandler := NewFieldHandler(farmapp.NewFieldService(fields, log))
	sensorHandler := NewSensorHandler(farmapp.NewSensorService(readings, fields, sensorsource.NewStoreSource(readings), log))

	middleware.SetupValidator()
	r := gin.New()
	r.Use(middleware.RequestID())

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuthMiddleware(jwtService))
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	v1.GET("/fields", fieldHandler.List)
	v1.POST("/fields", fieldHandler.Create)
	v1.GET("/fields/:id", fieldHandler.Get)
	v1.PUT("/fields/:id", fieldHandler.Update)
	v1.DELETE("/fields/:id", fieldHandler.Delete)

	v1.POST("/sensors", sensorHandler.Record)
	v1.GET("/sensors/:fieldId", sensorHandler.List)
	v1.GET("/sensors/:fieldId/latest", sensorHandler.Latest)

	return &testEnv{db: db, router: r, jwtService: jwtService}
}

// tokenFor issues a token without going through registration
func (e *testEnv) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := e.jwtService.GenerateToken(userID, userID.String()+"@farm.io")
	require.NoError(t, err)
	return token.AccessToken
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope's data into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// createField creates a field through the API and returns it
func (e *testEnv) createField(t *testing.T, token, name string) FieldResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/fields", token, map[string]any{
		"name":     name,
		"cropType": "Corn",
		"location": "Lot 4",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var field FieldResponse
	decodeData(t, w, &field)
	return field
}
