// Package dialect provides SQL dialect configuration for statement rendering.
//
// A Dialect knows how to quote identifiers, format bind placeholders and spell
// the column types and synthesized columns of a generated table. Concrete
// dialects are registered by the adapters in pkg/adapters/*.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/autocrud/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema string                // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   core.PlaceholderStyle // How to format query parameters

	// IdentityColumn is the column definition following the quoted "id" name in CREATE TABLE.
	IdentityColumn string
	// CreatedAtColumn is the column definition following the quoted "created_at" name.
	CreatedAtColumn string

	types         map[core.ColumnType]string
	reservedWords map[string]struct{}
}

// NormalizeName normalizes an identifier according to the dialect's rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormCaseSensitive:
		return name
	default:
		return strings.ToLower(name)
	}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[d.NormalizeName(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
//
// Every table and column name rendered by autocrud goes through this function.
// Embedded quote characters are escaped, which is the only protection applied to
// caller-supplied identifiers.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// UUIDIdentity reports whether the synthesized id column is typed UUID.
func (d *Dialect) UUIDIdentity() bool {
	fields := strings.Fields(d.IdentityColumn)
	return len(fields) > 0 && strings.EqualFold(fields[0], "UUID")
}

// TypeName returns the dialect spelling of an inferred column type.
// Types without an override use their canonical name.
func (d *Dialect) TypeName(t core.ColumnType) string {
	if name, ok := d.types[t]; ok {
		return name
	}
	return t.String()
}

// Builder constructs a Dialect.
type Builder struct {
	dialect *Dialect
}

// NewDialect starts building a dialect with standard double-quote identifiers
// and question-mark placeholders.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:    `"`,
				QuoteEnd: `"`,
				Escape:   `""`,
			},
			IdentityColumn:  "TEXT PRIMARY KEY",
			CreatedAtColumn: "TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP",
			types:           make(map[core.ColumnType]string),
			reservedWords:   make(map[string]struct{}),
		},
	}
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// ColumnType overrides the spelling of an inferred column type.
func (b *Builder) ColumnType(t core.ColumnType, name string) *Builder {
	b.dialect.types[t] = name
	return b
}

// IdentityColumn sets the definition of the synthesized id column.
func (b *Builder) IdentityColumn(def string) *Builder {
	b.dialect.IdentityColumn = def
	return b
}

// CreatedAtColumn sets the definition of the synthesized created_at column.
func (b *Builder) CreatedAtColumn(def string) *Builder {
	b.dialect.CreatedAtColumn = def
	return b
}

// WithReservedWords registers words that need quoting when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[b.dialect.NormalizeName(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
