package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"plantlens/internal/models"
)

const gardenSQLite = `
CREATE TABLE beds (
	id INTEGER PRIMARY KEY,
	label VARCHAR(40),
	sunny BOOLEAN NOT NULL DEFAULT 1
);
CREATE TABLE plants (
	id INTEGER PRIMARY KEY,
	bed_id INTEGER NOT NULL REFERENCES beds(id),
	species TEXT NOT NULL
);
CREATE TABLE waterings (
	plant_id INTEGER REFERENCES plants,
	at TEXT
);
`

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(gardenSQLite)
	require.NoError(t, err)
	return db
}

func ptr(s string) *string { return &s }

func TestSQLiteSchemaRepositoryColumns(t *testing.T) {
	repo := NewSQLiteSchemaRepository(openSQLite(t))

	rows, err := repo.Columns(context.Background(), "ignored")
	require.NoError(t, err)

	assert.Equal(t, []models.ColumnRow{
		{TableName: "beds", Column: models.Column{Name: "id", Type: "INTEGER", Nullable: true}},
		{TableName: "beds", Column: models.Column{Name: "label", Type: "VARCHAR(40)", Nullable: true}},
		{TableName: "beds", Column: models.Column{Name: "sunny", Type: "BOOLEAN", Default: ptr("1")}},
		{TableName: "plants", Column: models.Column{Name: "id", Type: "INTEGER", Nullable: true}},
		{TableName: "plants", Column: models.Column{Name: "bed_id", Type: "INTEGER"}},
		{TableName: "plants", Column: models.Column{Name: "species", Type: "TEXT"}},
		{TableName: "waterings", Column: models.Column{Name: "plant_id", Type: "INTEGER", Nullable: true}},
		{TableName: "waterings", Column: models.Column{Name: "at", Type: "TEXT", Nullable: true}},
	}, rows)
}

func TestSQLiteSchemaRepositoryForeignKeys(t *testing.T) {
	repo := NewSQLiteSchemaRepository(openSQLite(t))

	fks, err := repo.ForeignKeys(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []models.Relationship{
		{FromTable: "plants", FromColumn: "bed_id", ToTable: "beds", ToColumn: "id"},
		{FromTable: "waterings", FromColumn: "plant_id", ToTable: "plants", ToColumn: "id"},
	}, fks)
}

func TestFormatColumnType(t *testing.T) {
	n := int64(255)
	zero := int64(0)

	assert.Equal(t, "character varying(255)", formatColumnType("character varying", &n))
	assert.Equal(t, "integer", formatColumnType("integer", nil))
	assert.Equal(t, "text", formatColumnType("text", &zero))
}
