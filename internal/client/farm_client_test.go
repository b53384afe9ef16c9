package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarmClient_LoginAndLogout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	gw, store := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"token":     "jwt-token",
				"tokenType": "Bearer",
				"expiresAt": time.Now().Add(time.Hour).Format(time.RFC3339),
				"user":      map[string]any{"id": userID.String(), "name": "Ana", "email": "ana@farm.io"},
			},
		})
	}, "")
	fc := NewFarmClient(gw)

	session, err := fc.Login(ctx, "ana@farm.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", session.Token)
	assert.Equal(t, userID, session.User.ID)

	token, _ := store.Get(ctx)
	assert.Equal(t, "jwt-token", token)

	require.NoError(t, fc.Logout(ctx))
	token, _ = store.Get(ctx)
	assert.Empty(t, token)
}

func TestFarmClient_LoginFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	gw, store := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   map[string]any{"code": "ERR_UNAUTHORIZED", "message": "Invalid email or password"},
		})
	}, "")

	_, err := NewFarmClient(gw).Login(ctx, "ana@farm.io", "wrong")
	assert.True(t, IsUnauthorized(err))

	token, _ := store.Get(ctx)
	assert.Empty(t, token)
}

func TestFarmClient_Fields(t *testing.T) {
	ctx := context.Background()
	fieldID := uuid.New()

	var gotMethod, gotPath string
	var gotBody map[string]any
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		field := map[string]any{"id": fieldID.String(), "name": "North", "cropType": "Corn", "location": "Lot 4", "size": 12.5}
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/api/v1/fields" {
				writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": []any{field}})
				return
			}
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": field})
		case http.MethodPost:
			writeEnvelope(w, http.StatusCreated, map[string]any{"success": true, "data": field})
		case http.MethodPut:
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": field})
		case http.MethodDelete:
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"message": "Field deleted successfully"}})
		}
	}, "tok")
	fc := NewFarmClient(gw)

	size := decimal.RequireFromString("12.5")
	created, err := fc.CreateField(ctx, FieldInput{Name: "North", CropType: "Corn", Location: "Lot 4", Size: &size})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Corn", gotBody["cropType"])
	require.NotNil(t, created.Size)
	assert.True(t, size.Equal(*created.Size))

	list, err := fc.ListFields(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fieldID, list[0].ID)

	_, err = fc.GetField(ctx, fieldID)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/fields/"+fieldID.String(), gotPath)

	name := "South"
	_, err = fc.UpdateField(ctx, fieldID, FieldUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "South"}, gotBody)

	msg, err := fc.DeleteField(ctx, fieldID)
	require.NoError(t, err)
	assert.Equal(t, "Field deleted successfully", msg)
}

func TestFarmClient_Readings(t *testing.T) {
	ctx := context.Background()
	fieldID := uuid.New()

	var gotPath, gotQuery string
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		reading := map[string]any{"id": uuid.NewString(), "fieldId": fieldID.String(), "type": "temperature", "value": 21.5, "unit": "°C"}
		if r.Method == http.MethodPost {
			writeEnvelope(w, http.StatusCreated, map[string]any{"success": true, "data": reading})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": []any{reading}})
	}, "tok")
	fc := NewFarmClient(gw)

	rec, err := fc.RecordReading(ctx, ReadingInput{FieldID: fieldID, Type: "temperature", Value: 21.5})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/sensors", gotPath)
	assert.Equal(t, 21.5, rec.Value)

	list, err := fc.ListReadings(ctx, fieldID, ReadingQuery{Type: "temperature", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "/api/v1/sensors/"+fieldID.String(), gotPath)
	assert.Equal(t, "limit=10&type=temperature", gotQuery)

	_, err = fc.LatestReadings(ctx, fieldID)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/sensors/"+fieldID.String()+"/latest", gotPath)
}
