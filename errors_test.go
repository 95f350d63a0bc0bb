package booltime_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/booltime"
)

func TestAttributeError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := booltime.NewAttributeError("models.User", "activated_at", "")
		assert.Equal(t, `booltime: unknown attribute "activated_at" of models.User`, err.Error())

		err = booltime.NewAttributeError("models.User", "name", "not a nullable timestamp")
		assert.Equal(t, `booltime: attribute "name" of models.User: not a nullable timestamp`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := booltime.NewAttributeError("User", "x", "")
		assert.True(t, errors.Is(err, booltime.ErrUnknownAttribute))
		assert.False(t, errors.Is(err, booltime.ErrNotFound))
	})

	t.Run("IsAttributeError", func(t *testing.T) {
		err := booltime.NewAttributeError("User", "x", "")
		assert.True(t, booltime.IsAttributeError(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, booltime.IsAttributeError(booltime.ErrUnknownAttribute))
		assert.False(t, booltime.IsAttributeError(errors.New("other error")))
		assert.False(t, booltime.IsAttributeError(nil))
	})
}

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		assert.Equal(t, "booltime: users not found", booltime.NewNotFoundError("users", nil).Error())
		assert.Equal(t, "booltime: users not found (key=42)", booltime.NewNotFoundError("users", 42).Error())
	})

	t.Run("Accessors", func(t *testing.T) {
		err := booltime.NewNotFoundError("users", 42)
		assert.Equal(t, "users", err.Table())
		assert.Equal(t, 42, err.Key())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := booltime.NewNotFoundError("users", 1)
		assert.True(t, booltime.IsNotFound(err))
		assert.True(t, booltime.IsNotFound(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, booltime.IsNotFound(booltime.ErrNotFound))
		assert.False(t, booltime.IsNotFound(errors.New("other error")))
		assert.False(t, booltime.IsNotFound(nil))
	})
}
