package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTableCommand creates the table command group.
func NewTableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Create, alter, inspect and drop tables",
		Long: `Manage tables whose columns are inferred from a sample record.

Every generated table has a server-assigned "id" primary key and a
"created_at" timestamp in addition to the sample's fields.`,
	}

	cmd.AddCommand(newTableCreateCommand())
	cmd.AddCommand(newTableDropCommand())
	cmd.AddCommand(newTableAlterCommand())
	cmd.AddCommand(newTableUpdateRowsCommand())
	cmd.AddCommand(newTableDescribeCommand())

	return cmd
}

func newTableCreateCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create <table> <sample-json>",
		Short: "Create a table from a sample record",
		Long: `Create a table whose columns are inferred from a sample JSON object.

Strings become TEXT, numbers NUMERIC, booleans BOOLEAN, nested objects and
arrays JSONB. Creating a table that already exists is a no-op.
Pass "-" as the sample to read it from stdin.`,
		Example: `  # Create a widgets table
  autocrud table create widgets '{"name":"bolt","price":2.5,"active":true}'

  # Print the CREATE TABLE statement without running it
  autocrud table create widgets '{"name":"bolt"}' --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := parseRecordArg(cmd, args[1])
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.Engine.Schema(cmd.Context())
			if err != nil {
				return err
			}

			if dryRun {
				stmt, err := mgr.PlanCreateTable(args[0], sample)
				if err != nil {
					return err
				}
				cmdCtx.Renderer.Println(stmt)
				return nil
			}

			if err := mgr.CreateTable(cmd.Context(), args[0], sample); err != nil {
				return err
			}
			return cmdCtx.Renderer.Message(fmt.Sprintf("Table '%s' created.", args[0]))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the CREATE TABLE statement instead of running it")
	return cmd
}

func newTableDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "drop <table>",
		Aliases: []string{"delete"},
		Short:   "Drop a table",
		Long:    `Drop a table. Dropping a table that does not exist is a no-op.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.Engine.Schema(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.DropTable(cmd.Context(), args[0]); err != nil {
				return err
			}
			return cmdCtx.Renderer.Message(fmt.Sprintf("Table '%s' deleted.", args[0]))
		},
	}
}

func newTableAlterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alter <table> <clause>",
		Short: "Apply an ALTER TABLE clause",
		Long: `Run ALTER TABLE <table> <clause>.

The clause is passed to the database verbatim and must come from a trusted source.`,
		Example: `  autocrud table alter widgets 'ADD COLUMN color TEXT'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.Engine.Schema(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.AlterTable(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return cmdCtx.Renderer.Message(fmt.Sprintf("Table '%s' altered.", args[0]))
		},
	}
}

func newTableUpdateRowsCommand() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "update-rows <table> <set-clause>",
		Short: "Run a bulk UPDATE with a raw SET clause",
		Long: `Run UPDATE <table> SET <set-clause> WHERE <condition>.

Without --where every row is updated. Both clauses are passed to the database
verbatim and must come from a trusted source.`,
		Example: `  autocrud table update-rows widgets "price = price * 2" --where "active = true"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.Engine.Schema(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.AlterRows(cmd.Context(), args[0], args[1], where); err != nil {
				return err
			}
			return cmdCtx.Renderer.Message(fmt.Sprintf("Table '%s' updated.", args[0]))
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Raw WHERE condition (default: all rows)")
	return cmd
}

func newTableDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show a table's columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.Engine.Schema(cmd.Context())
			if err != nil {
				return err
			}
			cols, err := mgr.DescribeTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Columns(cols)
		},
	}
}
