package commands

import (
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/autocrud/internal/cli/testutil"
	"github.com/leapstack-labs/autocrud/internal/config"
	"github.com/leapstack-labs/autocrud/pkg/core"

	_ "github.com/leapstack-labs/autocrud/pkg/adapters/sqlite"
)

func TestNewTableCommand(t *testing.T) {
	cmd := NewTableCommand()

	assert.Equal(t, "table", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	want := []string{"create", "drop", "alter", "update-rows", "describe"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	create, _, _ := cmd.Find([]string{"create"})
	assert.NotNil(t, create.Flags().Lookup("dry-run"))
	rows, _, _ := cmd.Find([]string{"update-rows"})
	assert.NotNil(t, rows.Flags().Lookup("where"))
}

func TestNewRecordCommand(t *testing.T) {
	cmd := NewRecordCommand()

	assert.Equal(t, "record", cmd.Use)
	want := []string{"create", "create-many", "get", "list", "get-many", "update", "update-many", "delete", "delete-many"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Example)
	for _, flag := range []string{"addr", "max-body-bytes"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

// run executes a fresh command tree built by newCmd against cfg.
func run(t *testing.T, newCmd func() *cobra.Command, cfg *config.Config, args ...string) testutil.Result {
	t.Helper()
	return testutil.RunCommand(t, newCmd(), cfg, "", args...)
}

func decodeRecords(t *testing.T, s string) []*core.Record {
	t.Helper()
	recs, err := core.ParseRecords([]byte(s))
	require.NoError(t, err, "output: %s", s)
	return recs
}

func decodeRecord(t *testing.T, s string) *core.Record {
	t.Helper()
	rec := core.NewRecord()
	require.NoError(t, rec.UnmarshalJSON([]byte(s)), "output: %s", s)
	return rec
}

func TestTableCommands(t *testing.T) {
	cfg := testutil.TestConfig(t)

	res := run(t, NewTableCommand, cfg, "create", "widgets", `{"name":"bolt","price":2.5,"active":true}`)
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"message":"Table 'widgets' created."}`, res.Out)

	res = run(t, NewTableCommand, cfg, "describe", "widgets")
	require.NoError(t, res.Err)
	var cols []core.Column
	require.NoError(t, json.Unmarshal([]byte(res.Out), &cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"id", "name", "price", "active", "created_at"}, names)

	res = run(t, NewTableCommand, cfg, "alter", "widgets", "ADD COLUMN color TEXT")
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"message":"Table 'widgets' altered."}`, res.Out)

	res = run(t, NewTableCommand, cfg, "drop", "widgets")
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"message":"Table 'widgets' deleted."}`, res.Out)

	// Dropping twice is a no-op.
	res = run(t, NewTableCommand, cfg, "drop", "widgets")
	require.NoError(t, res.Err)
}

func TestTableCreate_DryRun(t *testing.T) {
	cfg := testutil.TestConfig(t)

	res := run(t, NewTableCommand, cfg, "create", "widgets", `{"name":"bolt"}`, "--dry-run")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, `CREATE TABLE IF NOT EXISTS "widgets"`)
	assert.Contains(t, res.Out, `"name" TEXT`)

	// Nothing was created.
	res = run(t, NewRecordCommand, cfg, "list", "widgets")
	require.Error(t, res.Err)
}

func TestTableCreate_Errors(t *testing.T) {
	cfg := testutil.TestConfig(t)

	res := run(t, NewTableCommand, cfg, "create", "widgets", `not json`)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "invalid record JSON")

	res = run(t, NewTableCommand, cfg, "create", "widgets")
	require.Error(t, res.Err, "sample argument is required")

	res = run(t, NewTableCommand, cfg, "create", "", `{"name":"x"}`)
	require.Error(t, res.Err)
	assert.True(t, core.IsValidation(res.Err))
}

func TestTableUpdateRows(t *testing.T) {
	cfg := testutil.TestConfig(t)

	require.NoError(t, run(t, NewTableCommand, cfg, "create", "widgets", `{"name":"a","price":1}`).Err)
	require.NoError(t, run(t, NewRecordCommand, cfg, "create-many", "widgets", `[{"name":"a","price":1},{"name":"b","price":2}]`).Err)

	res := run(t, NewTableCommand, cfg, "update-rows", "widgets", "price = price * 10", "--where", "name = 'b'")
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"message":"Table 'widgets' updated."}`, res.Out)

	res = run(t, NewRecordCommand, cfg, "list", "widgets", "--where", "price=20")
	require.NoError(t, res.Err)
	recs := decodeRecords(t, res.Out)
	require.Len(t, recs, 1)
	name, _ := recs[0].Get("name")
	assert.Equal(t, core.String("b"), name)
}

func TestRecordLifecycle(t *testing.T) {
	cfg := testutil.TestConfig(t)
	require.NoError(t, run(t, NewTableCommand, cfg, "create", "widgets", `{"name":"bolt","price":2.5,"active":true}`).Err)

	// create
	res := run(t, NewRecordCommand, cfg, "create", "widgets", `{"name":"bolt","price":2.5,"active":true}`)
	require.NoError(t, res.Err)
	created := decodeRecord(t, res.Out)
	id := created.ID()
	require.NotEmpty(t, id)
	assert.Equal(t, []string{"id", "name", "price", "active", "created_at"}, created.Keys())

	// get
	res = run(t, NewRecordCommand, cfg, "get", "widgets", id)
	require.NoError(t, res.Err)
	assert.Equal(t, id, decodeRecord(t, res.Out).ID())

	// update
	res = run(t, NewRecordCommand, cfg, "update", "widgets", id, `{"price":3}`)
	require.NoError(t, res.Err)
	price, _ := decodeRecord(t, res.Out).Get("price")
	assert.Equal(t, core.Number(3), price)

	// create-many keeps input order
	res = run(t, NewRecordCommand, cfg, "create-many", "widgets", `[{"name":"nut","active":false},{"name":"screw","active":true}]`)
	require.NoError(t, res.Err)
	many := decodeRecords(t, res.Out)
	require.Len(t, many, 2)
	first, _ := many[0].Get("name")
	assert.Equal(t, core.String("nut"), first)

	// list with filters
	res = run(t, NewRecordCommand, cfg, "list", "widgets", "--where", "active=true")
	require.NoError(t, res.Err)
	assert.Len(t, decodeRecords(t, res.Out), 2)

	res = run(t, NewRecordCommand, cfg, "list", "widgets", "-w", "active=true", "-w", "name=screw")
	require.NoError(t, res.Err)
	assert.Len(t, decodeRecords(t, res.Out), 1)

	// get-many skips unknown ids
	res = run(t, NewRecordCommand, cfg, "get-many", "widgets", id, many[0].ID(), "missing")
	require.NoError(t, res.Err)
	assert.Len(t, decodeRecords(t, res.Out), 2)

	// delete then get reports not found
	res = run(t, NewRecordCommand, cfg, "delete", "widgets", id)
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"deleted":true}`, res.Out)

	res = run(t, NewRecordCommand, cfg, "get", "widgets", id)
	require.Error(t, res.Err)
	assert.True(t, core.IsNotFound(res.Err))

	// delete-many
	res = run(t, NewRecordCommand, cfg, "delete-many", "widgets", many[0].ID(), many[1].ID())
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"deleted":true}`, res.Out)

	res = run(t, NewRecordCommand, cfg, "list", "widgets")
	require.NoError(t, res.Err)
	assert.JSONEq(t, `[]`, res.Out)
}

func TestRecordCreate_FromStdin(t *testing.T) {
	cfg := testutil.TestConfig(t)
	require.NoError(t, run(t, NewTableCommand, cfg, "create", "widgets", `{"name":"bolt"}`).Err)

	res := testutil.RunCommand(t, NewRecordCommand(), cfg, `{"name":"from stdin"}`, "create", "widgets", "-")
	require.NoError(t, res.Err)
	name, _ := decodeRecord(t, res.Out).Get("name")
	assert.Equal(t, core.String("from stdin"), name)
}

func TestRecordUpdateMany_PartialFailure(t *testing.T) {
	cfg := testutil.TestConfig(t)
	require.NoError(t, run(t, NewTableCommand, cfg, "create", "widgets", `{"name":"a"}`).Err)

	res := run(t, NewRecordCommand, cfg, "create-many", "widgets", `[{"name":"a"},{"name":"b"}]`)
	require.NoError(t, res.Err)
	recs := decodeRecords(t, res.Out)

	patches := `[
		{"id":"` + recs[0].ID() + `","data":{"name":"a2"}},
		{"id":"missing","data":{"name":"x"}},
		{"id":"` + recs[1].ID() + `","data":{"name":"b2"}}
	]`
	res = run(t, NewRecordCommand, cfg, "update-many", "widgets", patches)
	require.Error(t, res.Err)
	assert.True(t, core.IsNotFound(res.Err))

	// The update before the failure is reported and kept.
	updated := decodeRecords(t, res.Out)
	require.Len(t, updated, 1)
	name, _ := updated[0].Get("name")
	assert.Equal(t, core.String("a2"), name)

	res = run(t, NewRecordCommand, cfg, "get", "widgets", recs[1].ID())
	require.NoError(t, res.Err)
	name, _ = decodeRecord(t, res.Out).Get("name")
	assert.Equal(t, core.String("b"), name, "updates after the failure are not applied")
}

func TestRecordUpdateMany_InvalidJSON(t *testing.T) {
	cfg := testutil.TestConfig(t)

	res := run(t, NewRecordCommand, cfg, "update-many", "widgets", `{"id":"x"}`)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "invalid patches JSON")
}

func TestParseWhere(t *testing.T) {
	f, err := parseWhere([]string{"price=3", "active=true", "note=null", `code="7"`, "name=bolt", "expr=a=b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"price", "active", "note", "code", "name", "expr"}, f.Fields())

	tests := map[string]core.FieldValue{
		"price":  core.Number(3),
		"active": core.Bool(true),
		"note":   core.Null{},
		"code":   core.String("7"),
		"name":   core.String("bolt"),
		"expr":   core.String("a=b"),
	}
	for field, want := range tests {
		got, ok := f.Value(field)
		require.True(t, ok, field)
		assert.True(t, core.EqualValues(want, got), "%s: got %#v", field, got)
	}

	f, err = parseWhere(nil)
	require.NoError(t, err)
	assert.True(t, f.Empty())

	_, err = parseWhere([]string{"novalue"})
	require.Error(t, err)
	_, err = parseWhere([]string{"=3"})
	require.Error(t, err)
}
