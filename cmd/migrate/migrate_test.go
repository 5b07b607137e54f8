package main

import (
	"testing"
	"testing/fstest"

	"celebstyle-backend/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_indexes.sql": {Data: []byte("SELECT 1")},
		"0001_init.sql":    {Data: []byte("SELECT 1")},
		"README.md":        {Data: []byte("notes")},
		"0010_late.sql":    {Data: []byte("SELECT 1")},
	}

	files, err := migrationFiles(fsys)

	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_indexes.sql", "0010_late.sql"}, files)
	assert.Equal(t, "0001_init", versionOf(files[0]))
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := migrationFiles(migrations.FS)

	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.sql", files[0])
}
