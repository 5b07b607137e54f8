package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDBConfig_DSN(t *testing.T) {
	cfg := &DBConfig{Host: "db", Port: 5432, Username: "celeb", Password: "p@ss word", DBName: "celebstyle", SSLMode: "disable"}
	assert.Equal(t, "postgresql://celeb:p%40ss%20word@db:5432/celebstyle?sslmode=disable", cfg.DSN())
}

func TestPgErrorHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "celebrities_slug_key"})
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: "outfits_celebrity_id_fkey"}

	assert.True(t, IsUniqueViolation(unique, ""))
	assert.True(t, IsUniqueViolation(unique, "celebrities_slug_key"))
	assert.False(t, IsUniqueViolation(unique, "other"))
	assert.False(t, IsForeignKeyViolation(unique, ""))
	assert.True(t, IsForeignKeyViolation(fk, "outfits_celebrity_id_fkey"))
	assert.False(t, IsUniqueViolation(errors.New("plain"), ""))
}

func TestIsNoRowsAndTimeout(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.True(t, IsTimeout(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeout(errors.New("syntax error")))
}

func TestPostgresDB_NotConnected(t *testing.T) {
	db := NewPostgresDB(&DBConfig{})
	assert.Error(t, db.HealthCheck(context.Background()))
	assert.Equal(t, PoolStats{}, db.Stats())
	assert.NoError(t, db.Close())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%zen%", LikePattern(" zen "))
	assert.Equal(t, `%100\%\_off%`, LikePattern("100%_off"))
}

func TestWhere(t *testing.T) {
	var w Where
	assert.Empty(t, w.SQL())

	w.Add("category = ?", "Actor")
	w.AddSame("(name ILIKE ? OR bio ILIKE ?)", "%z%")
	w.Add("tags @> ARRAY[?]::text[]", "red-carpet")
	limit := w.Next(20)

	assert.Equal(t, "WHERE category = $1 AND (name ILIKE $2 OR bio ILIKE $2) AND tags @> ARRAY[$3]::text[]", w.SQL())
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []interface{}{"Actor", "%z%", "red-carpet", 20}, w.Args())

	for i := 0; i < 8; i++ {
		w.Next(i)
	}
	assert.Equal(t, "$13", w.Next(0))
}
