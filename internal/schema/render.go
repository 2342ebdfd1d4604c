package schema

import (
	"strings"

	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/leapstack-labs/autocrud/pkg/dialect"
)

// RenderCreateTable renders an idempotent CREATE TABLE statement for s.
// The id column comes first, the inferred columns follow in sample order,
// and created_at is always last.
func RenderCreateTable(d *dialect.Dialect, s core.TableSchema) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(d.QuoteIdentifier(s.Name))
	sb.WriteString(" (\n")

	defs := make([]string, 0, len(s.Columns)+2)
	defs = append(defs, d.QuoteIdentifier(core.IDField)+" "+d.IdentityColumn)
	for _, col := range s.Columns {
		defs = append(defs, d.QuoteIdentifier(col.Name)+" "+d.TypeName(col.Type))
	}
	defs = append(defs, d.QuoteIdentifier(core.CreatedAtField)+" "+d.CreatedAtColumn)

	for i, def := range defs {
		sb.WriteString("    ")
		sb.WriteString(def)
		if i < len(defs)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(')')
	return sb.String()
}

// RenderDropTable renders an idempotent DROP TABLE statement.
func RenderDropTable(d *dialect.Dialect, table string) string {
	return "DROP TABLE IF EXISTS " + d.QuoteIdentifier(table)
}

// RenderAlterTable appends clause verbatim to ALTER TABLE.
// clause is trusted input: it is not parsed or escaped.
func RenderAlterTable(d *dialect.Dialect, table, clause string) string {
	return "ALTER TABLE " + d.QuoteIdentifier(table) + " " + strings.TrimSpace(clause)
}

// RenderAlterRows renders UPDATE ... SET setClause WHERE condition.
// Both clauses are trusted input and submitted verbatim. An empty condition matches every row.
func RenderAlterRows(d *dialect.Dialect, table, setClause, condition string) string {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		condition = "1=1"
	}
	return "UPDATE " + d.QuoteIdentifier(table) + " SET " + strings.TrimSpace(setClause) + " WHERE " + condition
}
