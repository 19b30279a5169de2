package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_create_tables.sql", "00002_seed_boxes.sql"}, names)

	for _, n := range names {
		raw, err := fs.ReadFile(Migrations, n)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(raw), "-- +goose Up"), n)
		assert.Contains(t, string(raw), "-- +goose Down", n)
	}
}
