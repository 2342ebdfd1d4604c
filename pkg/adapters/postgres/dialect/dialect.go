// Package dialect provides the PostgreSQL SQL dialect definition.
// This package is lightweight and has no database driver dependencies,
// making it suitable for rendering statements without opening a connection.
package dialect

import (
	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/leapstack-labs/autocrud/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// postgresReservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of frequently problematic identifiers.
var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where", "index",
	"all", "and", "any", "array", "as", "asc", "authorization", "between",
	"both", "case", "cast", "check", "collate", "column", "constraint",
	"create", "cross", "current_date", "current_time", "current_timestamp",
	"current_user", "default", "desc", "distinct", "do", "else", "end",
	"except", "false", "fetch", "for", "foreign", "from", "full", "grant",
	"having", "in", "inner", "into", "is", "join", "leading", "left", "like",
	"limit", "not", "null", "offset", "on", "only", "or", "outer", "primary",
	"references", "returning", "right", "some", "then", "to", "true", "union",
	"unique", "using", "when", "window", "with",
}

// Postgres is the PostgreSQL dialect configuration.
var Postgres = dialect.NewDialect("postgres").
	Identifiers(`"`, `"`, `""`, core.NormLowercase). // Postgres normalizes unquoted identifiers to lowercase
	DefaultSchema("public").
	PlaceholderStyle(core.PlaceholderDollar).
	IdentityColumn("UUID PRIMARY KEY DEFAULT gen_random_uuid()").
	CreatedAtColumn("TIMESTAMPTZ DEFAULT now()").
	WithReservedWords(postgresReservedWords...).
	Build()
