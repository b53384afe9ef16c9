package client

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const apiPrefix = "/api/v1"

// User is the public profile returned by register and login
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the result of a successful login
type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Field is a farm plot
type Field struct {
	ID        uuid.UUID        `json:"id"`
	OwnerID   uuid.UUID        `json:"ownerId"`
	Name      string           `json:"name"`
	CropType  string           `json:"cropType"`
	Location  string           `json:"location"`
	Size      *decimal.Decimal `json:"size"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// FieldInput creates a field
type FieldInput struct {
	Name     string           `json:"name"`
	CropType string           `json:"cropType"`
	Location string           `json:"location"`
	Size     *decimal.Decimal `json:"size,omitempty"`
}

// FieldUpdate changes the supplied attributes of a field
type FieldUpdate struct {
	Name     *string          `json:"name,omitempty"`
	CropType *string          `json:"cropType,omitempty"`
	Location *string          `json:"location,omitempty"`
	Size     *decimal.Decimal `json:"size,omitempty"`
}

// Reading is a sensor measurement
type Reading struct {
	ID        uuid.UUID `json:"id"`
	FieldID   uuid.UUID `json:"fieldId"`
	Type      string    `json:"type"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReadingInput records a measurement
type ReadingInput struct {
	FieldID   uuid.UUID  `json:"fieldId"`
	Type      string     `json:"type"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ReadingQuery filters a reading listing. Zero values are omitted.
type ReadingQuery struct {
	Type  string
	Limit int
}

// FarmClient is a typed wrapper over the farm API
type FarmClient struct {
	gw *Gateway
}

// NewFarmClient creates a client sending requests through gw
func NewFarmClient(gw *Gateway) *FarmClient {
	return &FarmClient{gw: gw}
}

// Gateway returns the underlying gateway
func (c *FarmClient) Gateway() *Gateway {
	return c.gw
}

// Register creates an account. It does not log in.
func (c *FarmClient) Register(ctx context.Context, name, email, password string) (*User, error) {
	var user User
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.gw.Post(ctx, apiPrefix+"/auth/register", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the returned token for later calls
func (c *FarmClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.gw.Post(ctx, apiPrefix+"/auth/login", body, &session); err != nil {
		return nil, err
	}
	if err := c.gw.Tokens().Set(ctx, session.Token); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout forgets the stored token. Tokens are not revoked server side.
func (c *FarmClient) Logout(ctx context.Context) error {
	return c.gw.Tokens().Clear(ctx)
}

// ListFields returns the caller's fields, newest first
func (c *FarmClient) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.gw.Get(ctx, apiPrefix+"/fields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// CreateField creates a field owned by the caller
func (c *FarmClient) CreateField(ctx context.Context, in FieldInput) (*Field, error) {
	var field Field
	if err := c.gw.Post(ctx, apiPrefix+"/fields", in, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// GetField fetches one of the caller's fields
func (c *FarmClient) GetField(ctx context.Context, id uuid.UUID) (*Field, error) {
	var field Field
	if err := c.gw.Get(ctx, apiPrefix+"/fields/"+id.String(), nil, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// UpdateField applies a partial update
func (c *FarmClient) UpdateField(ctx context.Context, id uuid.UUID, in FieldUpdate) (*Field, error) {
	var field Field
	if err := c.gw.Put(ctx, apiPrefix+"/fields/"+id.String(), in, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// DeleteField removes a field and returns the server's confirmation
func (c *FarmClient) DeleteField(ctx context.Context, id uuid.UUID) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.gw.Delete(ctx, apiPrefix+"/fields/"+id.String(), &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// RecordReading stores a measurement
func (c *FarmClient) RecordReading(ctx context.Context, in ReadingInput) (*Reading, error) {
	var reading Reading
	if err := c.gw.Post(ctx, apiPrefix+"/sensors", in, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// ListReadings lists a field's readings, newest first
func (c *FarmClient) ListReadings(ctx context.Context, fieldID uuid.UUID, q ReadingQuery) ([]Reading, error) {
	query := map[string]string{"type": q.Type}
	if q.Limit > 0 {
		query["limit"] = strconv.Itoa(q.Limit)
	}
	var readings []Reading
	if err := c.gw.Get(ctx, apiPrefix+"/sensors/"+fieldID.String(), query, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// LatestReadings returns the dashboard readings for a field
func (c *FarmClient) LatestReadings(ctx context.Context, fieldID uuid.UUID) ([]Reading, error) {
	var readings []Reading
	if err := c.gw.Get(ctx, apiPrefix+"/sensors/"+fieldID.String()+"/latest", nil, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}
