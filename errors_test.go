package veloxspanner_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	veloxspanner "github.com/syssam/velox-spanner"
)

func TestUnsupportedTypeError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := veloxspanner.NewUnsupportedTypeError("example.com/app.Money")
		assert.Equal(t, "velox-spanner: example.com/app.Money has no Spanner type code", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := veloxspanner.NewUnsupportedTypeError("complex128")
		assert.True(t, errors.Is(err, veloxspanner.ErrUnsupportedType))
		assert.False(t, errors.Is(err, veloxspanner.ErrFieldNotFound))
	})

	t.Run("IsUnsupportedType", func(t *testing.T) {
		err := veloxspanner.NewUnsupportedTypeError("complex128")
		assert.True(t, veloxspanner.IsUnsupportedType(err))

		// Wrapped error
		wrapped := fmt.Errorf("column Scores: %w", err)
		assert.True(t, veloxspanner.IsUnsupportedType(wrapped))

		// Sentinel error
		assert.True(t, veloxspanner.IsUnsupportedType(veloxspanner.ErrUnsupportedType))

		assert.False(t, veloxspanner.IsUnsupportedType(errors.New("other error")))
		assert.False(t, veloxspanner.IsUnsupportedType(nil))
	})
}

func TestFieldNotFoundError(t *testing.T) {
	err := veloxspanner.NewFieldNotFoundError("example.com/app.Album", "Tracks")
	assert.Equal(t, `velox-spanner: field "Tracks" not found on example.com/app.Album`, err.Error())
	assert.True(t, errors.Is(err, veloxspanner.ErrFieldNotFound))
	assert.True(t, veloxspanner.IsFieldNotFound(fmt.Errorf("wrap: %w", err)))
	assert.True(t, veloxspanner.IsConfigError(err))
	assert.False(t, veloxspanner.IsFieldNotFound(nil))
}

func TestTypeResolutionError(t *testing.T) {
	t.Run("Error with reason", func(t *testing.T) {
		err := veloxspanner.NewTypeResolutionError("AlbumKey", "not a struct")
		assert.Equal(t, `velox-spanner: cannot resolve type "AlbumKey": not a struct`, err.Error())
	})

	t.Run("Error without reason", func(t *testing.T) {
		err := veloxspanner.NewTypeResolutionError("AlbumKey", "")
		assert.Equal(t, `velox-spanner: cannot resolve type "AlbumKey"`, err.Error())
	})

	t.Run("IsTypeResolution", func(t *testing.T) {
		err := veloxspanner.NewTypeResolutionError("AlbumKey", "")
		assert.True(t, errors.Is(err, veloxspanner.ErrTypeResolution))
		assert.True(t, veloxspanner.IsTypeResolution(fmt.Errorf("wrap: %w", err)))
		assert.True(t, veloxspanner.IsConfigError(err))
		assert.False(t, veloxspanner.IsTypeResolution(errors.New("other error")))
	})
}

func TestEntityNotMappedError(t *testing.T) {
	err := veloxspanner.NewEntityNotMappedError("example.com/app.Singer")
	assert.Equal(t, "velox-spanner: could not find table for entity example.com/app.Singer", err.Error())
	assert.True(t, errors.Is(err, veloxspanner.ErrEntityNotMapped))
	assert.True(t, veloxspanner.IsEntityNotMapped(fmt.Errorf("wrap: %w", err)))
	assert.False(t, veloxspanner.IsConfigError(err))
	assert.False(t, veloxspanner.IsEntityNotMapped(nil))
}
