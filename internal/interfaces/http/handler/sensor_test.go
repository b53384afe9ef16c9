package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordBody(fieldID uuid.UUID, readingType string, value float64, ts time.Time) map[string]any {
	return map[string]any{
		"fieldId":   fieldID.String(),
		"type":      readingType,
		"value":     value,
		"timestamp": ts.Format(time.RFC3339),
	}
}

func TestSensorHandler_Record(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, uuid.New())
	field := env.createField(t, token, "North")

	t.Run("applies default unit", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, map[string]any{
			"fieldId": field.ID.String(),
			"type":    "pH",
			"value":   6.8,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var reading ReadingResponse
		decodeData(t, w, &reading)
		assert.Equal(t, field.ID, reading.FieldID)
		assert.Equal(t, "ph", reading.Type)
		assert.Equal(t, "pH", reading.Unit)
		assert.InDelta(t, 6.8, reading.Value, 1e-9)
		assert.False(t, reading.Timestamp.IsZero())
	})

	t.Run("zero is a valid value", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, recordBody(field.ID, "temperature", 0, time.Now()))
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("any authenticated user may record", func(t *testing.T) {
		other := env.tokenFor(t, uuid.New())
		w := env.do(http.MethodPost, "/api/v1/sensors", other, recordBody(field.ID, "humidity", 40, time.Now()))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, recordBody(uuid.New(), "temperature", 20, time.Now()))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, recordBody(field.ID, "radiation", 1, time.Now()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
	})

	t.Run("missing value", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, map[string]any{
			"fieldId": field.ID.String(),
			"type":    "temperature",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	})

	t.Run("malformed field id", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, map[string]any{
			"fieldId": "field-1",
			"type":    "temperature",
			"value":   1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSensorHandler_List(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, uuid.New())
	field := env.createField(t, token, "North")
	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	for i, typ := range []string{"temperature", "humidity", "temperature"} {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, recordBody(field.ID, typ, float64(i), base.Add(time.Duration(i)*time.Minute)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	path := "/api/v1/sensors/" + field.ID.String()

	t.Run("newest first", func(t *testing.T) {
		w := env.do(http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var readings []ReadingResponse
		decodeData(t, w, &readings)
		require.Len(t, readings, 3)
		assert.InDelta(t, 2, readings[0].Value, 1e-9)
		assert.InDelta(t, 0, readings[2].Value, 1e-9)
	})

	t.Run("type and limit filters", func(t *testing.T) {
		w := env.do(http.MethodGet, path+"?type=Temperature&limit=1", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var readings []ReadingResponse
		decodeData(t, w, &readings)
		require.Len(t, readings, 1)
		assert.Equal(t, "temperature", readings[0].Type)
		assert.InDelta(t, 2, readings[0].Value, 1e-9)
	})

	t.Run("bad filters", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, path+"?type=radiation", token, nil).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, path+"?limit=-1", token, nil).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, path+"?limit=many", token, nil).Code)
	})

	t.Run("unknown field lists nothing", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/sensors/"+uuid.NewString(), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("non-uuid field id lists nothing", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/sensors/field-1", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}

func TestSensorHandler_Latest(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, uuid.New())
	field := env.createField(t, token, "North")
	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	for i, typ := range []string{"temperature", "humidity", "temperature"} {
		w := env.do(http.MethodPost, "/api/v1/sensors", token, recordBody(field.ID, typ, float64(10+i), base.Add(time.Duration(i)*time.Minute)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(http.MethodGet, "/api/v1/sensors/"+field.ID.String()+"/latest", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var readings []ReadingResponse
	decodeData(t, w, &readings)
	require.Len(t, readings, 2)
	byType := map[string]float64{}
	for _, r := range readings {
		byType[r.Type] = r.Value
	}
	assert.InDelta(t, 12, byType["temperature"], 1e-9)
	assert.InDelta(t, 11, byType["humidity"], 1e-9)

	w = env.do(http.MethodGet, "/api/v1/sensors/x/latest", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}
