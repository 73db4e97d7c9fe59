package services

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantlens/internal/models"
)

type svgElement struct {
	Name  string
	Attrs map[string]string
	Text  string
}

// parseSVG returns every element below the root, failing the test on malformed XML.
func parseSVG(t *testing.T, doc []byte) (root svgElement, elements []svgElement) {
	t.Helper()

	dec := xml.NewDecoder(bytes.NewReader(doc))
	var stack []*svgElement
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch tok := tok.(type) {
		case xml.StartElement:
			el := &svgElement{Name: tok.Name.Local, Attrs: map[string]string{}}
			for _, a := range tok.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			stack = append(stack, el)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(tok)
			}
		case xml.EndElement:
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = *el
			} else {
				elements = append(elements, *el)
			}
		}
	}
	require.Empty(t, stack)
	return root, elements
}

func countElements(elements []svgElement, name string) int {
	n := 0
	for _, el := range elements {
		if el.Name == name {
			n++
		}
	}
	return n
}

func columns(names ...string) []models.Column {
	cols := make([]models.Column, len(names))
	for i, name := range names {
		cols[i] = models.Column{Name: name, Type: "integer"}
	}
	return cols
}

func TestRenderSVGEmptySchema(t *testing.T) {
	var buf bytes.Buffer
	RenderSVG(&buf, &models.Schema{})

	root, elements := parseSVG(t, buf.Bytes())
	assert.Equal(t, "svg", root.Name)
	assert.Equal(t, "3000", root.Attrs["width"])
	assert.Equal(t, "2000", root.Attrs["height"])
	assert.Zero(t, countElements(elements, "rect"))
	assert.Zero(t, countElements(elements, "line"))
	assert.Zero(t, countElements(elements, "text"))
}

func TestLayoutTwoTables(t *testing.T) {
	tables := []models.Table{
		{Name: "A", Columns: columns("id", "b_id", "name")},
		{Name: "B", Columns: columns("col")},
	}

	positions := LayoutTables(tables)

	assert.Equal(t, models.TablePosition{X: 50, Y: 50, Height: 90}, positions["A"])
	assert.Equal(t, models.TablePosition{X: 350, Y: 50, Height: 50}, positions["B"])
}

func TestLayoutWrapsRows(t *testing.T) {
	var tables []models.Table
	for i := 0; i < 11; i++ {
		name := string(rune('a' + i))
		cols := columns("id")
		if i == 3 {
			cols = columns("id", "x", "y", "z")
		}
		tables = append(tables, models.Table{Name: name, Columns: cols})
	}

	positions := LayoutTables(tables)

	// nine tables per row: after "i" at 2450, x moves to 2750, which passes 2700 and wraps
	assert.Equal(t, 50, positions["a"].X)
	assert.Equal(t, models.TablePosition{X: 2450, Y: 50, Height: 50}, positions["i"])
	// tallest in the first row is "d" with 4 columns: 30 + 80 = 110
	assert.Equal(t, models.TablePosition{X: 50, Y: 50 + 110 + 50, Height: 50}, positions["j"])
	assert.Equal(t, models.TablePosition{X: 350, Y: 50 + 110 + 50, Height: 50}, positions["k"])
}

func TestRenderSVGRelationship(t *testing.T) {
	schema := &models.Schema{
		Tables: []models.Table{
			{Name: "A", Columns: []models.Column{
				{Name: "id", Type: "integer"},
				{Name: "col", Type: "integer"},
				{Name: "note", Type: "character varying(255)", Nullable: true},
			}},
			{Name: "B", Columns: columns("col")},
		},
		Relationships: []models.Relationship{
			{FromTable: "A", FromColumn: "col", ToTable: "B", ToColumn: "col"},
		},
	}

	var buf bytes.Buffer
	RenderSVG(&buf, schema)
	_, elements := parseSVG(t, buf.Bytes())

	// 2 headers + 4 column rows
	assert.Equal(t, 6, countElements(elements, "rect"))
	require.Equal(t, 1, countElements(elements, "line"))

	var line svgElement
	var texts []string
	for _, el := range elements {
		switch el.Name {
		case "line":
			line = el
		case "text":
			texts = append(texts, el.Text)
		}
	}

	assert.Equal(t, "300", line.Attrs["x1"])
	assert.Equal(t, "65", line.Attrs["y1"])
	assert.Equal(t, "350", line.Attrs["x2"])
	assert.Equal(t, "65", line.Attrs["y2"])

	assert.Contains(t, texts, "A")
	assert.Contains(t, texts, "B")
	assert.Contains(t, texts, "id: integer")
	assert.Contains(t, texts, "note: character varying(255) (nullable)")
	assert.Contains(t, texts, "A.col → B.col")
}

func TestRenderSVGSkipsUnknownTables(t *testing.T) {
	schema := &models.Schema{
		Tables: []models.Table{{Name: "A", Columns: columns("id")}},
		Relationships: []models.Relationship{
			{FromTable: "A", FromColumn: "id", ToTable: "missing", ToColumn: "id"},
		},
	}

	var buf bytes.Buffer
	RenderSVG(&buf, schema)
	_, elements := parseSVG(t, buf.Bytes())

	assert.Zero(t, countElements(elements, "line"))
}

func TestRenderSVGEscapesNames(t *testing.T) {
	schema := &models.Schema{
		Tables: []models.Table{{Name: "a<b>&c", Columns: columns("id")}},
	}

	var buf bytes.Buffer
	RenderSVG(&buf, schema)

	assert.False(t, strings.Contains(buf.String(), "a<b>"))
	_, elements := parseSVG(t, buf.Bytes())
	assert.Equal(t, "a<b>&c", elements[1].Text)
}

func TestRelationshipLabel(t *testing.T) {
	rel := models.Relationship{FromTable: "orders", FromColumn: "user_id", ToTable: "users", ToColumn: "id"}
	assert.Equal(t, "orders.user_id → users.id", RelationshipLabel(rel))
}
