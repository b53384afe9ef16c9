package handler

import (
	"net/http"
	"testing"

	"github.com/smartfarm/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(name, email, password string) map[string]string {
	return map[string]string{"name": name, "email": email, "password": password}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", "", registerBody("Ana", "Ana@Farm.io", "s3cret-pass"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user UserResponse
	decodeData(t, w, &user)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@farm.io", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", "", registerBody("Ana", "ana@farm.io", "s3cret-pass"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/register", "", registerBody("Other Ana", "ANA@farm.io", "another-pass"))
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
}

func TestAuthHandler_Register_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"missing fields", map[string]string{"email": "ana@farm.io"}, dto.ErrCodeValidation},
		{"blank name", registerBody("   ", "ana@farm.io", "s3cret-pass"), dto.ErrCodeInvalidInput},
		{"malformed email", registerBody("Ana", "not-an-email", "s3cret-pass"), dto.ErrCodeInvalidInput},
		{"malformed json", `{"name":`, dto.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/api/v1/auth/register", "", registerBody("Ana", "ana@farm.io", "s3cret-pass"))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("success returns a usable token", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "ana@farm.io", "password": "s3cret-pass",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var login LoginResponse
		decodeData(t, w, &login)
		assert.Equal(t, "Bearer", login.TokenType)
		assert.Equal(t, "ana@farm.io", login.User.Email)
		require.NotEmpty(t, login.Token)

		w = env.do(http.MethodGet, "/api/v1/fields", login.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "ana@farm.io", "password": "wrong-pass",
		})
		unknown := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "bob@farm.io", "password": "wrong-pass",
		})

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		wrongErr := decodeResponse(t, wrong).Error
		unknownErr := decodeResponse(t, unknown).Error
		assert.Equal(t, dto.ErrCodeInvalidCredentials, wrongErr.Code)
		assert.Equal(t, wrongErr.Code, unknownErr.Code)
		assert.Equal(t, wrongErr.Message, unknownErr.Message)
	})

	t.Run("missing password", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ana@farm.io"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
