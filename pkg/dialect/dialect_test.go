package dialect

import (
	"testing"

	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	d := NewDialect("test").Build()

	tests := []struct {
		input string
		want  string
	}{
		{"widgets", `"widgets"`},
		{"my table", `"my table"`},
		{`we"ird`, `"we""ird"`},
		{`"; DROP TABLE x; --`, `"""; DROP TABLE x; --"`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, d.QuoteIdentifier(tt.input))
		})
	}
}

func TestQuoteIdentifier_Brackets(t *testing.T) {
	d := NewDialect("brackets").Identifiers("[", "]", "]]", core.NormCaseSensitive).Build()
	assert.Equal(t, "[a]]b]", d.QuoteIdentifier("a]b"))
}

func TestFormatPlaceholder(t *testing.T) {
	question := NewDialect("q").Build()
	dollar := NewDialect("d").PlaceholderStyle(core.PlaceholderDollar).Build()

	assert.Equal(t, "?", question.FormatPlaceholder(1))
	assert.Equal(t, "?", question.FormatPlaceholder(7))
	assert.Equal(t, "$1", dollar.FormatPlaceholder(1))
	assert.Equal(t, "$12", dollar.FormatPlaceholder(12))
}

func TestTypeName(t *testing.T) {
	d := NewDialect("test").ColumnType(core.TypeJSONB, "JSON").Build()

	assert.Equal(t, "JSON", d.TypeName(core.TypeJSONB))
	assert.Equal(t, "TEXT", d.TypeName(core.TypeText))
	assert.Equal(t, "NUMERIC", d.TypeName(core.TypeNumeric))
}

func TestReservedWords(t *testing.T) {
	d := NewDialect("test").WithReservedWords("user", "ORDER").Build()

	assert.True(t, d.IsReservedWord("USER"))
	assert.True(t, d.IsReservedWord("order"))
	assert.False(t, d.IsReservedWord("users"))
	assert.Equal(t, `"user"`, d.QuoteIdentifierIfNeeded("user"))
	assert.Equal(t, "name", d.QuoteIdentifierIfNeeded("name"))
}

func TestRegistry(t *testing.T) {
	d := NewDialect("Registry_Test").Build()
	Register(d)

	got, ok := Get("registry_test")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Contains(t, List(), "registry_test")

	_, ok = Get("missing")
	assert.False(t, ok)
}

func TestUUIDIdentity(t *testing.T) {
	assert.False(t, NewDialect("t").Build().UUIDIdentity(), "default id column is TEXT")
	assert.True(t, NewDialect("t").IdentityColumn("UUID PRIMARY KEY DEFAULT gen_random_uuid()").Build().UUIDIdentity())
	assert.True(t, NewDialect("t").IdentityColumn("uuid primary key").Build().UUIDIdentity())
	assert.False(t, NewDialect("t").IdentityColumn("UUIDISH PRIMARY KEY").Build().UUIDIdentity())
	assert.False(t, NewDialect("t").IdentityColumn("").Build().UUIDIdentity())
}
