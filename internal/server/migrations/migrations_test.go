package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	b, err := fs.ReadFile(Migrations, "00001_create_users.sql")
	require.NoError(t, err)

	sql := string(b)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	assert.Contains(t, sql, "UNIQUE (username)")
	assert.Contains(t, sql, "UNIQUE (email)")
}
