package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/smartfarm/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	// Safe to call repeatedly
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func newValidationRouter() *gin.Engine {
	type fieldInput struct {
		Name     string   `json:"name" binding:"required"`
		CropType string   `json:"cropType" binding:"required,max=100"`
		Size     *float64 `json:"size" binding:"omitempty,gte=0"`
	}

	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req fieldInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("reports json attribute names", func(t *testing.T) {
		w := postJSON(router, `{"size": -1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "cropType", "size"}, fields)
	})

	t.Run("reports type mismatches", func(t *testing.T) {
		w := postJSON(router, `{"name": "North", "cropType": "Corn", "size": "big"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "size", resp.Error.Details[0].Field)
	})

	t.Run("reports malformed json", func(t *testing.T) {
		w := postJSON(router, `{"name": `)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
	})

	t.Run("passes valid input", func(t *testing.T) {
		w := postJSON(router, `{"name": "North", "cropType": "Corn", "size": 12.5}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type input struct {
		Required string `validate:"required"`
		Email    string `validate:"omitempty,email"`
		Min      string `validate:"omitempty,min=5"`
		OneOf    string `validate:"omitempty,oneof=a b"`
		GTE      int    `validate:"gte=10"`
	}

	err := validator.New().Struct(input{Email: "bad", Min: "ab", OneOf: "z"})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Invalid email format", got["Email"])
	assert.Equal(t, "Must be at least 5 characters", got["Min"])
	assert.Equal(t, "Must be one of: a b", got["OneOf"])
	assert.Equal(t, "Must be greater than or equal to 10", got["GTE"])
}
