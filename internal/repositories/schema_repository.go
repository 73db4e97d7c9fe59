package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"plantlens/internal/models"
)

// Catalog reads column and foreign key metadata from a database's catalog.
type Catalog interface {
	// Columns returns every column in schema ordered by table name, then position.
	Columns(ctx context.Context, schema string) ([]models.ColumnRow, error)
	ForeignKeys(ctx context.Context, schema string) ([]models.Relationship, error)
}

func formatColumnType(dataType string, maxLength *int64) string {
	if maxLength != nil && *maxLength > 0 {
		return fmt.Sprintf("%s(%d)", dataType, *maxLength)
	}
	return dataType
}

// SchemaRepository reads information_schema on PostgreSQL.
type SchemaRepository struct {
	pool *pgxpool.Pool
}

func NewSchemaRepository(pool *pgxpool.Pool) *SchemaRepository {
	return &SchemaRepository{pool: pool}
}

func (r *SchemaRepository) Columns(ctx context.Context, schema string) ([]models.ColumnRow, error) {
	query := `
		SELECT
			table_name::text,
			column_name::text,
			data_type::text,
			character_maximum_length::bigint,
			is_nullable::text,
			column_default::text
		FROM information_schema.columns
		WHERE table_schema = $1
		ORDER BY table_name, ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnRow
	for rows.Next() {
		var row models.ColumnRow
		var dataType, nullable string
		var maxLength *int64
		if err := rows.Scan(&row.TableName, &row.Column.Name, &dataType, &maxLength, &nullable, &row.Column.Default); err != nil {
			return nil, err
		}
		row.Column.Type = formatColumnType(dataType, maxLength)
		row.Column.Nullable = nullable == "YES"
		columns = append(columns, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

func (r *SchemaRepository) ForeignKeys(ctx context.Context, schema string) ([]models.Relationship, error) {
	query := `
		SELECT
			tc.table_name::text AS from_table,
			kcu.column_name::text AS from_column,
			ccu.table_name::text AS to_table,
			ccu.column_name::text AS to_column
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
	`

	rows, err := r.pool.Query(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.Relationship
	for rows.Next() {
		var fk models.Relationship
		if err := rows.Scan(&fk.FromTable, &fk.FromColumn, &fk.ToTable, &fk.ToColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fks, nil
}

// MySQLSchemaRepository reads information_schema on MySQL, where the schema is
// the database name.
type MySQLSchemaRepository struct {
	db *sql.DB
}

func NewMySQLSchemaRepository(db *sql.DB) *MySQLSchemaRepository {
	return &MySQLSchemaRepository{db: db}
}

func (r *MySQLSchemaRepository) Columns(ctx context.Context, schema string) ([]models.ColumnRow, error) {
	query := `
		SELECT
			TABLE_NAME,
			COLUMN_NAME,
			DATA_TYPE,
			CHARACTER_MAXIMUM_LENGTH,
			IS_NULLABLE,
			COLUMN_DEFAULT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME, ORDINAL_POSITION
	`

	rows, err := r.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnRow
	for rows.Next() {
		var row models.ColumnRow
		var dataType, nullable string
		var maxLength sql.NullInt64
		var def sql.NullString
		if err := rows.Scan(&row.TableName, &row.Column.Name, &dataType, &maxLength, &nullable, &def); err != nil {
			return nil, err
		}
		var length *int64
		if maxLength.Valid {
			length = &maxLength.Int64
		}
		row.Column.Type = formatColumnType(dataType, length)
		row.Column.Nullable = nullable == "YES"
		if def.Valid {
			row.Column.Default = &def.String
		}
		columns = append(columns, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

func (r *MySQLSchemaRepository) ForeignKeys(ctx context.Context, schema string) ([]models.Relationship, error) {
	query := `
		SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME
		FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ?
			AND REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY TABLE_NAME, CONSTRAINT_NAME, ORDINAL_POSITION
	`

	rows, err := r.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.Relationship
	for rows.Next() {
		var fk models.Relationship
		if err := rows.Scan(&fk.FromTable, &fk.FromColumn, &fk.ToTable, &fk.ToColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fks, nil
}

// SQLiteSchemaRepository reads sqlite_master through the pragma table functions.
// SQLite has a single schema per file, so the schema argument is ignored.
type SQLiteSchemaRepository struct {
	db *sql.DB
}

func NewSQLiteSchemaRepository(db *sql.DB) *SQLiteSchemaRepository {
	return &SQLiteSchemaRepository{db: db}
}

func (r *SQLiteSchemaRepository) Columns(ctx context.Context, _ string) ([]models.ColumnRow, error) {
	query := `
		SELECT m.name, p.name, p.type, p."notnull", p.dflt_value
		FROM sqlite_master AS m
		JOIN pragma_table_info(m.name) AS p
		WHERE m.type = 'table'
			AND m.name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY m.name, p.cid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnRow
	for rows.Next() {
		var row models.ColumnRow
		var notNull int
		var def sql.NullString
		if err := rows.Scan(&row.TableName, &row.Column.Name, &row.Column.Type, &notNull, &def); err != nil {
			return nil, err
		}
		row.Column.Nullable = notNull == 0
		if def.Valid {
			row.Column.Default = &def.String
		}
		columns = append(columns, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

func (r *SQLiteSchemaRepository) ForeignKeys(ctx context.Context, _ string) ([]models.Relationship, error) {
	query := `
		SELECT m.name, f."from", f."table",
			COALESCE(f."to", (SELECT pk.name FROM pragma_table_info(f."table") AS pk WHERE pk.pk = 1))
		FROM sqlite_master AS m
		JOIN pragma_foreign_key_list(m.name) AS f
		WHERE m.type = 'table'
		ORDER BY m.name, f.id, f.seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.Relationship
	for rows.Next() {
		var fk models.Relationship
		var to sql.NullString
		if err := rows.Scan(&fk.FromTable, &fk.FromColumn, &fk.ToTable, &to); err != nil {
			return nil, err
		}
		fk.ToColumn = to.String
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fks, nil
}
