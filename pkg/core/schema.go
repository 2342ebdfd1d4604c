package core

// ColumnType is the relational type assigned to an inferred column.
type ColumnType string

// Column types produced by schema inference.
const (
	TypeText        ColumnType = "TEXT"
	TypeNumeric     ColumnType = "NUMERIC"
	TypeBoolean     ColumnType = "BOOLEAN"
	TypeTimestamptz ColumnType = "TIMESTAMPTZ"
	TypeJSONB       ColumnType = "JSONB"
)

// String returns the canonical type name.
func (t ColumnType) String() string {
	return string(t)
}

// ColumnDef is an inferred column: a name and its type.
type ColumnDef struct {
	Name string
	Type ColumnType
}

// TableSchema is a table name plus the columns inferred from a sample record,
// in sample order. The identity and creation timestamp columns are implicit and
// added when the schema is rendered.
type TableSchema struct {
	Name    string
	Columns []ColumnDef
}

// ColumnNames returns the inferred column names in order.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
