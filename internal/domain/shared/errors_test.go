package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches on code regardless of message", func(t *testing.T) {
		err := NewNotFoundError("Field not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrAlreadyExists))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", NewValidationError("name is required"))
		assert.True(t, errors.Is(err, ErrInvalidInput))

		var domainErr *DomainError
		assert.True(t, errors.As(err, &domainErr))
		assert.Equal(t, CodeInvalidInput, domainErr.Code)
		assert.Equal(t, "name is required", domainErr.Message)
	})

	t.Run("does not match plain errors", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("NOT_FOUND"), ErrNotFound))
	})
}

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()
	assert.NotEqual(t, [16]byte{}, [16]byte(e.ID))
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
}

func TestBaseEntity_Touch(t *testing.T) {
	t.Run("advances updated at", func(t *testing.T) {
		e := NewBaseEntity()
		e.UpdatedAt = e.UpdatedAt.Add(-time.Hour)
		before := e.UpdatedAt

		e.Touch()
		assert.True(t, e.UpdatedAt.After(before))
		assert.False(t, e.UpdatedAt.Before(e.CreatedAt))
	})

	t.Run("never moves backwards", func(t *testing.T) {
		e := NewBaseEntity()
		future := time.Now().Add(time.Hour)
		e.UpdatedAt = future

		e.Touch()
		assert.Equal(t, future, e.UpdatedAt)
	})
}
