package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autocrud/internal/cli/output"
	"github.com/leapstack-labs/autocrud/internal/config"
	"github.com/leapstack-labs/autocrud/internal/engine"
	"github.com/leapstack-labs/autocrud/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// The engine connects on first use. Returns the context and a cleanup function
// that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(engine.Config{
		AdapterConfig: cmdCtx.Cfg.Target.AdapterConfig(),
		Logger:        cmdCtx.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if err := eng.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close engine", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need database access.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// getConfig returns the configuration stored by the root command, loading
// defaults when a command runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetConfig(cmd.Context()); cfg != nil {
		return cfg, nil
	}
	return config.Load("", nil)
}

// readInput returns arg, or the command's stdin when arg is "-".
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// parseRecordArg decodes a JSON object argument.
func parseRecordArg(cmd *cobra.Command, arg string) (*core.Record, error) {
	data, err := readInput(cmd, arg)
	if err != nil {
		return nil, err
	}
	rec := core.NewRecord()
	if err := rec.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	return rec, nil
}

// parseRecordsArg decodes a JSON array of objects argument.
func parseRecordsArg(cmd *cobra.Command, arg string) ([]*core.Record, error) {
	data, err := readInput(cmd, arg)
	if err != nil {
		return nil, err
	}
	recs, err := core.ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("invalid records JSON: %w", err)
	}
	return recs, nil
}

// parseWhere builds a filter from field=value pairs. Values that parse as JSON
// scalars keep their type, so price=3 matches a number and name="3" a string.
// Anything else is taken as a plain string.
func parseWhere(pairs []string) (*core.Filter, error) {
	var f *core.Filter
	for _, pair := range pairs {
		field, raw, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --where %q (want field=value)", pair)
		}
		var v any = raw
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			switch decoded.(type) {
			case float64, bool, string, nil:
				v = decoded
			}
		}
		if f == nil {
			f = core.Where(field, v)
		} else {
			f.And(field, v)
		}
	}
	return f, nil
}
