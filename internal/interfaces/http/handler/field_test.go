package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldHandler_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/fields", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFieldHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	token := env.tokenFor(t, owner)

	t.Run("with size", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/fields", token, `{"name":"North","cropType":"Corn","location":"Lot 4","size":"12.50"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var field FieldResponse
		decodeData(t, w, &field)
		assert.Equal(t, owner, field.OwnerID)
		assert.Equal(t, "North", field.Name)
		assert.Equal(t, "Corn", field.CropType)
		require.NotNil(t, field.Size)
		assert.Equal(t, "12.5", field.Size.String())
		assert.Contains(t, w.Body.String(), `"size":12.5`)
	})

	t.Run("without size", func(t *testing.T) {
		field := env.createField(t, token, "South")
		assert.Nil(t, field.Size)
	})

	t.Run("missing attribute", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/fields", token, map[string]string{"name": "North", "cropType": "Corn"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "location", resp.Error.Details[0].Field)
	})

	t.Run("blank attribute", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/fields", token, map[string]string{"name": "North", "cropType": "  ", "location": "Lot 4"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
	})

	t.Run("negative size", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/fields", token, `{"name":"North","cropType":"Corn","location":"Lot 4","size":-1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Size cannot be negative", decodeResponse(t, w).Error.Message)
	})
}

func TestFieldHandler_ListIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ana := env.tokenFor(t, uuid.New())
	bob := env.tokenFor(t, uuid.New())

	env.createField(t, ana, "North")
	env.createField(t, ana, "South")
	env.createField(t, bob, "Bob's")

	w := env.do(http.MethodGet, "/api/v1/fields", ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fields []FieldResponse
	decodeData(t, w, &fields)
	require.Len(t, fields, 2)
	names := []string{fields[0].Name, fields[1].Name}
	assert.ElementsMatch(t, []string{"North", "South"}, names)

	w = env.do(http.MethodGet, "/api/v1/fields", env.tokenFor(t, uuid.New()), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestFieldHandler_OtherOwnerSeesNotFound(t *testing.T) {
	env := newTestEnv(t)
	ana := env.tokenFor(t, uuid.New())
	bob := env.tokenFor(t, uuid.New())
	field := env.createField(t, ana, "North")
	path := "/api/v1/fields/" + field.ID.String()

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, path, bob, map[string]string{"name": "Stolen"}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, bob, nil).Code)

	w := env.do(http.MethodGet, path, ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got FieldResponse
	decodeData(t, w, &got)
	assert.Equal(t, "North", got.Name)
}

func TestFieldHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, uuid.New())
	field := env.createField(t, token, "North")
	path := "/api/v1/fields/" + field.ID.String()

	t.Run("changes only supplied attributes", func(t *testing.T) {
		w := env.do(http.MethodPut, path, token, map[string]any{"cropType": "Wheat", "name": "", "size": 3})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got FieldResponse
		decodeData(t, w, &got)
		assert.Equal(t, "North", got.Name)
		assert.Equal(t, "Wheat", got.CropType)
		assert.Equal(t, "Lot 4", got.Location)
		require.NotNil(t, got.Size)
		assert.Equal(t, "3", got.Size.String())
	})

	t.Run("repeating an update is a no-op", func(t *testing.T) {
		first := env.do(http.MethodPut, path, token, map[string]string{"location": "Lot 9"})
		require.Equal(t, http.StatusOK, first.Code)
		var a FieldResponse
		decodeData(t, first, &a)

		second := env.do(http.MethodPut, path, token, map[string]string{"location": "Lot 9"})
		require.Equal(t, http.StatusOK, second.Code)
		var b FieldResponse
		decodeData(t, second, &b)

		assert.Equal(t, "Lot 9", b.Location)
		assert.Equal(t, a.Name, b.Name)
		assert.Equal(t, a.CropType, b.CropType)
		assert.True(t, a.UpdatedAt.Equal(b.UpdatedAt), "updatedAt moved: %v -> %v", a.UpdatedAt, b.UpdatedAt)
	})

	t.Run("negative size", func(t *testing.T) {
		w := env.do(http.MethodPut, path, token, map[string]any{"size": -2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFieldHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, uuid.New())
	field := env.createField(t, token, "North")
	path := "/api/v1/fields/" + field.ID.String()

	w := env.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp DeleteFieldResponse
	decodeData(t, w, &resp)
	assert.Equal(t, "Field deleted successfully", resp.Message)

	w = env.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, token, nil).Code)
}

func TestFieldHandler_NonUUIDIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, uuid.New())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := env.do(method, "/api/v1/fields/not-a-uuid", token, map[string]string{"name": "x"})
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
		})
	}
}
