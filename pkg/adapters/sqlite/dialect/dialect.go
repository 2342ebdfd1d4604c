// Package dialect provides the SQLite SQL dialect definition.
package dialect

import (
	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/leapstack-labs/autocrud/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect configuration.
// SQLite accepts any declared type name, so the canonical names are kept
// and the row decoder reads them back from the column declarations.
var SQLite = dialect.NewDialect("sqlite").
	Identifiers(`"`, `"`, `""`, core.NormLowercase).
	DefaultSchema("main").
	PlaceholderStyle(core.PlaceholderQuestion).
	IdentityColumn("TEXT PRIMARY KEY").
	CreatedAtColumn("TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP").
	WithReservedWords(
		"abort", "action", "add", "all", "alter", "and", "as", "asc", "between",
		"by", "case", "check", "collate", "column", "commit", "constraint",
		"create", "cross", "default", "delete", "desc", "distinct", "drop",
		"else", "end", "escape", "except", "exists", "from", "full", "glob",
		"group", "having", "in", "index", "inner", "insert", "intersect", "into",
		"is", "isnull", "join", "key", "left", "like", "limit", "match",
		"natural", "not", "notnull", "null", "of", "offset", "on", "or",
		"order", "outer", "primary", "references", "regexp", "returning",
		"right", "select", "set", "table", "then", "to", "transaction",
		"union", "unique", "update", "using", "values", "when", "where",
	).
	Build()
