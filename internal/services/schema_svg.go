package services

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"plantlens/internal/models"
)

const (
	canvasWidth  = 3000
	canvasHeight = 2000

	gridStart    = 50
	gridColumn   = 300
	rowMargin    = 50
	tableWidth   = 250
	headerHeight = 30
	rowHeight    = 20
	// relationship lines attach to the header, this far below the table's top edge
	anchorOffset = 15
)

// TableHeight is the height of a table box with n columns.
func TableHeight(columns int) int {
	return headerHeight + columns*rowHeight
}

// LayoutTables places tables left to right, top to bottom, in the given order.
// A row wraps once x would pass the last full column; the next row starts below
// the tallest table of the current one.
func LayoutTables(tables []models.Table) map[string]models.TablePosition {
	positions := make(map[string]models.TablePosition, len(tables))

	x, y := gridStart, gridStart
	maxHeight := 0
	for _, table := range tables {
		height := TableHeight(len(table.Columns))
		positions[table.Name] = models.TablePosition{X: x, Y: y, Height: height}

		maxHeight = max(maxHeight, height)

		x += gridColumn
		if x > canvasWidth-gridColumn {
			x = gridStart
			y += maxHeight + rowMargin
			maxHeight = 0
		}
	}

	return positions
}

// RelationshipLabel is the text drawn next to a relationship line.
func RelationshipLabel(rel models.Relationship) string {
	return fmt.Sprintf("%s.%s → %s.%s", rel.FromTable, rel.FromColumn, rel.ToTable, rel.ToColumn)
}

// RenderSVG draws every table and relationship of schema onto a fixed canvas.
// Relationships pointing at tables that were not drawn are skipped.
func RenderSVG(w io.Writer, schema *models.Schema) {
	canvas := svg.New(w)
	canvas.Start(canvasWidth, canvasHeight)

	positions := LayoutTables(schema.Tables)

	for _, table := range schema.Tables {
		drawTable(canvas, table, positions[table.Name])
	}

	for _, rel := range schema.Relationships {
		from, ok := positions[rel.FromTable]
		if !ok {
			continue
		}
		to, ok := positions[rel.ToTable]
		if !ok {
			continue
		}
		drawRelationship(canvas, rel, from, to)
	}

	canvas.End()
}

func drawTable(canvas *svg.SVG, table models.Table, pos models.TablePosition) {
	canvas.Rect(pos.X, pos.Y, tableWidth, headerHeight, `fill="#4a69bd"`)
	canvas.Text(pos.X+5, pos.Y+20, table.Name, `fill="white"`, `font-weight="bold"`)

	for i, col := range table.Columns {
		yPos := pos.Y + headerHeight + i*rowHeight
		fill := "#f1f2f6"
		if i%2 == 1 {
			fill = "#dfe4ea"
		}
		canvas.Rect(pos.X, yPos, tableWidth, rowHeight, fmt.Sprintf(`fill="%s"`, fill))

		label := col.Name + ": " + col.Type
		if col.Nullable {
			label += " (nullable)"
		}
		canvas.Text(pos.X+5, yPos+15, label, `font-size="12"`)
	}
}

func drawRelationship(canvas *svg.SVG, rel models.Relationship, from, to models.TablePosition) {
	startX := from.X + tableWidth
	startY := from.Y + anchorOffset
	endX := to.X
	endY := to.Y + anchorOffset

	canvas.Line(startX, startY, endX, endY, `stroke="#2c3e50"`, `stroke-width="2"`)
	canvas.Text((startX+endX)/2, (startY+endY)/2-5, RelationshipLabel(rel), `font-size="10"`, `fill="#2c3e50"`)
}
