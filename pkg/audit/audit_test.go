package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewPostgresRecorder(t *testing.T) {
	t.Run("Should reject nil configuration", func(t *testing.T) {
		_, err := NewPostgresRecorder(context.Background(), nil, zap.NewNop())
		assert.ErrorContains(t, err, "configuration cannot be nil")
	})
}

func TestNopRecorder(t *testing.T) {
	t.Run("Should accept and discard operations", func(t *testing.T) {
		r := NopRecorder{}
		assert.NoError(t, r.Record(context.Background(), "run-1", nil))
		assert.NoError(t, r.Close())
	})
}

func TestToNullableString(t *testing.T) {
	t.Run("Should map nil to a null value", func(t *testing.T) {
		assert.Nil(t, toNullableString(nil))
	})

	t.Run("Should render non-nil values as strings", func(t *testing.T) {
		s := toNullableString(int64(42))
		if assert.NotNil(t, s) {
			assert.Equal(t, "42", *s)
		}
	})
}
