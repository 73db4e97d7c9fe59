package models

type Column struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default"`
}

// ColumnRow is one row of the catalog's column listing, before grouping by table.
type ColumnRow struct {
	TableName string
	Column    Column
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

type Relationship struct {
	FromTable  string `json:"fromTable"`
	FromColumn string `json:"fromColumn"`
	ToTable    string `json:"toTable"`
	ToColumn   string `json:"toColumn"`
}

// Schema keeps tables in the order the catalog returned them.
type Schema struct {
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
}

// TablePosition is where a table box was placed on the canvas.
type TablePosition struct {
	X      int
	Y      int
	Height int
}
