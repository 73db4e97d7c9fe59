package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"plantlens/internal/models"
	"plantlens/internal/repositories"
)

type SchemaService struct {
	catalog repositories.Catalog
}

// NewSchemaService creates a new SchemaService
func NewSchemaService(catalog repositories.Catalog) *SchemaService {
	return &SchemaService{catalog: catalog}
}

// Load reads tables and relationships for schema, keeping catalog order.
func (s *SchemaService) Load(ctx context.Context, schema string) (*models.Schema, error) {
	rows, err := s.catalog.Columns(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	fks, err := s.catalog.ForeignKeys(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}

	return &models.Schema{
		Tables:        groupColumns(rows),
		Relationships: fks,
	}, nil
}

// Render loads schema and writes it to w in the requested format.
func (s *SchemaService) Render(ctx context.Context, w io.Writer, schema string, format DiagramFormat) error {
	loaded, err := s.Load(ctx, schema)
	if err != nil {
		return err
	}

	switch format {
	case FormatMermaid:
		_, err = io.WriteString(w, GenerateMermaid(loaded))
		return err
	default:
		RenderSVG(w, loaded)
		return nil
	}
}

type DiagramFormat int

const (
	FormatSVG DiagramFormat = iota
	FormatMermaid
)

// FormatForPath picks Mermaid for .mmd files and SVG for everything else.
func FormatForPath(path string) DiagramFormat {
	if strings.HasSuffix(strings.ToLower(path), ".mmd") {
		return FormatMermaid
	}
	return FormatSVG
}

func groupColumns(rows []models.ColumnRow) []models.Table {
	var tables []models.Table
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.TableName]
		if !ok {
			i = len(tables)
			index[row.TableName] = i
			tables = append(tables, models.Table{Name: row.TableName})
		}
		tables[i].Columns = append(tables[i].Columns, row.Column)
	}
	return tables
}

// GenerateMermaid renders schema as a Mermaid ER diagram.
func GenerateMermaid(schema *models.Schema) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	if len(schema.Relationships) > 0 {
		seen := make(map[models.Relationship]bool)
		for _, rel := range schema.Relationships {
			if seen[rel] {
				continue
			}
			seen[rel] = true

			sb.WriteString(fmt.Sprintf("    %s ||--o{ %s : \"%s\"\n",
				strings.ToUpper(rel.ToTable),
				strings.ToUpper(rel.FromTable),
				rel.FromColumn))
		}
		sb.WriteString("\n")
	}

	for _, table := range schema.Tables {
		sb.WriteString(fmt.Sprintf("    %s {\n", strings.ToUpper(table.Name)))

		for _, col := range table.Columns {
			annotation := ""
			if isForeignKey(schema.Relationships, table.Name, col.Name) {
				annotation = " FK"
			}

			sb.WriteString(fmt.Sprintf("        %s %s%s\n",
				simplifyDataType(col.Type),
				col.Name,
				annotation))
		}

		sb.WriteString("    }\n\n")
	}

	return sb.String()
}

// simplifyDataType maps catalog type names onto single Mermaid tokens.
func simplifyDataType(dataType string) string {
	dt := strings.ToLower(dataType)

	switch {
	case dt == "integer":
		return "int"
	case strings.HasPrefix(dt, "character varying"):
		return "varchar"
	case strings.HasPrefix(dt, "character"):
		return "char"
	case strings.HasPrefix(dt, "timestamp without time zone"):
		return "timestamp"
	case strings.HasPrefix(dt, "timestamp with time zone"):
		return "timestamptz"
	case strings.HasPrefix(dt, "time without time zone"):
		return "time"
	case strings.HasPrefix(dt, "numeric"):
		return "numeric"
	case dt == "double precision":
		return "double"
	case strings.HasPrefix(dt, "array"):
		return "array"
	}

	// Mermaid attribute types cannot contain spaces or parentheses.
	if i := strings.IndexAny(dt, " ("); i > 0 {
		return dt[:i]
	}
	if dt == "" {
		return "unknown"
	}
	return dt
}

func isForeignKey(rels []models.Relationship, table, column string) bool {
	for _, rel := range rels {
		if rel.FromTable == table && rel.FromColumn == column {
			return true
		}
	}
	return false
}
