// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autocrud/internal/cli/output"
	"github.com/leapstack-labs/autocrud/internal/config"
)

// SetupTestProject creates a temporary project directory holding an
// autocrud.yaml that points at a SQLite file inside it.
// It returns the directory and the database path.
func SetupTestProject(t *testing.T) (string, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := "target:\n  type: sqlite\n  database: " + dbPath + "\noutput: json\nlog:\n  level: error\n"
	if err := os.WriteFile(filepath.Join(tmpDir, config.ConfigFileName), []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", config.ConfigFileName, err)
	}

	return tmpDir, dbPath
}

// TestConfig returns a JSON-output config for a SQLite file in a temp directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Target: config.TargetConfig{
			Type:     "sqlite",
			Database: filepath.Join(t.TempDir(), "test.db"),
			Schema:   "main",
		},
		Log:    config.LogConfig{Level: "error", Format: "text"},
		Output: string(output.ModeJSON),
	}
}

// Result holds the captured streams of one command execution.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// RunCommand executes cmd with args, stdin and cfg placed in its context.
func RunCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) Result {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	ctx := context.Background()
	if cfg != nil {
		ctx = config.WithConfig(ctx, cfg)
	}
	err := cmd.ExecuteContext(ctx)

	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}
