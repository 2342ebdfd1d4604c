package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/autocrud/internal/cli/testutil"
	"github.com/leapstack-labs/autocrud/pkg/core"

	_ "github.com/leapstack-labs/autocrud/pkg/adapters/sqlite"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "autocrud", cmd.Use)
	for _, flag := range []string{"config", "output", "log-level", "log-format", "target-type", "database", "schema"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
	for _, name := range []string{"version", "serve", "table", "record", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCmd_FlagsSelectTarget(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "flags.db")

	res := testutil.RunCommand(t, NewRootCmd(), nil, "",
		"--database", db, "-o", "json", "table", "create", "widgets", `{"name":"bolt"}`)
	require.NoError(t, res.Err)
	assert.JSONEq(t, `{"message":"Table 'widgets' created."}`, res.Out)

	res = testutil.RunCommand(t, NewRootCmd(), nil, "",
		"--database", db, "-o", "json", "record", "create", "widgets", `{"name":"bolt"}`)
	require.NoError(t, res.Err)
	rec := core.NewRecord()
	require.NoError(t, rec.UnmarshalJSON([]byte(res.Out)))
	assert.NotEmpty(t, rec.ID())
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir, _ := testutil.SetupTestProject(t)
	t.Chdir(t.TempDir())

	cfgPath := filepath.Join(dir, "autocrud.yaml")
	res := testutil.RunCommand(t, NewRootCmd(), nil, "", "--config", cfgPath, "table", "create", "widgets", `{"n":1}`)
	require.NoError(t, res.Err)

	res = testutil.RunCommand(t, NewRootCmd(), nil, "", "--config", cfgPath, "record", "list", "widgets")
	require.NoError(t, res.Err)
	assert.JSONEq(t, `[]`, res.Out)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	res := testutil.RunCommand(t, NewRootCmd(), nil, "", "--target-type", "oracle", "record", "list", "widgets")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "unknown adapter type")

	res = testutil.RunCommand(t, NewRootCmd(), nil, "", "-o", "csv", "record", "list", "widgets")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "invalid output format")
}

func TestRootCmd_VersionSkipsConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	res := testutil.RunCommand(t, NewRootCmd(), nil, "", "--target-type", "oracle", "version")
	require.NoError(t, res.Err)
	testutil.AssertContains(t, res.Out, "autocrud v"+Version)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			res := testutil.RunCommand(t, NewRootCmd(), nil, "", "completion", shell)
			require.NoError(t, res.Err)
			assert.NotEmpty(t, res.Out)
			testutil.AssertNoANSI(t, res.Out)
		})
	}

	res := testutil.RunCommand(t, NewRootCmd(), nil, "", "completion", "tcsh")
	require.Error(t, res.Err)
}
