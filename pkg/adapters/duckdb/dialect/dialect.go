// Package dialect provides the DuckDB SQL dialect definition.
// This package is lightweight and has no database driver dependencies,
// so statements can be rendered without opening a connection.
package dialect

import (
	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/leapstack-labs/autocrud/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect configuration.
var DuckDB = dialect.NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, core.NormLowercase).
	DefaultSchema("main").
	PlaceholderStyle(core.PlaceholderQuestion).
	// DuckDB has no arbitrary-precision NUMERIC without a width; DOUBLE keeps float64 round trips exact.
	ColumnType(core.TypeNumeric, "DOUBLE").
	ColumnType(core.TypeJSONB, "JSON").
	IdentityColumn("UUID PRIMARY KEY DEFAULT gen_random_uuid()").
	CreatedAtColumn("TIMESTAMPTZ DEFAULT current_timestamp").
	WithReservedWords(
		"all", "analyse", "analyze", "and", "any", "array", "as", "asc",
		"asymmetric", "both", "case", "cast", "check", "collate", "column",
		"constraint", "create", "default", "deferrable", "desc", "describe",
		"distinct", "do", "else", "end", "except", "false", "fetch", "for",
		"foreign", "from", "grant", "group", "having", "in", "initially",
		"intersect", "into", "lateral", "leading", "limit", "not", "null",
		"offset", "on", "only", "or", "order", "pivot", "placing", "primary",
		"qualify", "references", "returning", "select", "show", "some",
		"summarize", "symmetric", "table", "then", "to", "trailing", "true",
		"union", "unique", "unpivot", "using", "variadic", "when", "where",
		"window", "with",
	).
	Build()
