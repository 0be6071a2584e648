package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/config"
)

func TestFactory_Create(t *testing.T) {
	t.Run("Should create a CSV source for the csv kind", func(t *testing.T) {
		f := NewFactory(&config.Config{Source: config.SourceCSV, CSV: testCSVConfig()}, zap.NewNop())

		src, err := f.Create(context.Background())
		require.NoError(t, err)
		assert.IsType(t, &CSVSource{}, src)
	})

	t.Run("Should reject an unknown source kind", func(t *testing.T) {
		f := NewFactory(&config.Config{Source: "ftp"}, zap.NewNop())

		_, err := f.Create(context.Background())
		assert.ErrorContains(t, err, "unknown source kind")
	})
}

func TestDatabaseSourceConstructors(t *testing.T) {
	t.Run("Should require configuration and a logger", func(t *testing.T) {
		_, err := NewPostgresSource(context.Background(), nil, zap.NewNop())
		assert.ErrorContains(t, err, "configuration cannot be nil")

		_, err = NewPostgresSource(context.Background(), &config.PostgresConfig{}, nil)
		assert.ErrorContains(t, err, "logger cannot be nil")

		_, err = NewSnowflakeSource(context.Background(), nil, zap.NewNop())
		assert.ErrorContains(t, err, "configuration cannot be nil")

		_, err = NewSnowflakeSource(context.Background(), &config.SnowflakeConfig{}, nil)
		assert.ErrorContains(t, err, "logger cannot be nil")
	})
}
