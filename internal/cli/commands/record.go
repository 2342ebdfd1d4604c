package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autocrud/internal/store"
)

// NewRecordCommand creates the record command group.
func NewRecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "record",
		Aliases: []string{"records"},
		Short:   "Create, read, update and delete records",
		Long: `Generic CRUD over any table created by "autocrud table create".

Record arguments are JSON objects; pass "-" to read JSON from stdin.
Returned records include the server-assigned "id" and "created_at".`,
	}

	cmd.AddCommand(newRecordCreateCommand())
	cmd.AddCommand(newRecordCreateManyCommand())
	cmd.AddCommand(newRecordGetCommand())
	cmd.AddCommand(newRecordListCommand())
	cmd.AddCommand(newRecordGetManyCommand())
	cmd.AddCommand(newRecordUpdateCommand())
	cmd.AddCommand(newRecordUpdateManyCommand())
	cmd.AddCommand(newRecordDeleteCommand())
	cmd.AddCommand(newRecordDeleteManyCommand())

	return cmd
}

// withStore runs fn with a connected store and the command's renderer.
func withStore(cmd *cobra.Command, fn func(cmdCtx *CommandContext, st *store.Store) error) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := cmdCtx.Engine.Store(cmd.Context())
	if err != nil {
		return err
	}
	return fn(cmdCtx, st)
}

func newRecordCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "create <table> <record-json>",
		Short:   "Insert one record",
		Example: `  autocrud record create widgets '{"name":"bolt","price":2.5}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := parseRecordArg(cmd, args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				created, err := st.Create(cmd.Context(), args[0], rec)
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Record(created)
			})
		},
	}
}

func newRecordCreateManyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-many <table> <records-json>",
		Short: "Insert several records in one statement",
		Long: `Insert a JSON array of records with a single INSERT statement.
Either every record is stored or none is.`,
		Example: `  autocrud record create-many widgets '[{"name":"a"},{"name":"b"}]'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := parseRecordsArg(cmd, args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				created, err := st.CreateMany(cmd.Context(), args[0], recs)
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Records(created)
			})
		},
	}
}

func newRecordGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Fetch one record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				rec, err := st.GetByID(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Record(rec)
			})
		},
	}
}

func newRecordListCommand() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List records, optionally filtered",
		Long: `List every record of a table.

Each --where field=value adds an equality constraint; all constraints must hold.
Values are read as JSON scalars when possible (3, true, null, "3") and as plain
strings otherwise. field=null matches rows where the field IS NULL.`,
		Example: `  autocrud record list widgets
  autocrud record list widgets --where active=true --where color=red`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseWhere(where)
			if err != nil {
				return err
			}
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				recs, err := st.GetAll(cmd.Context(), args[0], filter)
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Records(recs)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Equality filter field=value (repeatable)")
	return cmd
}

func newRecordGetManyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-many <table> <id>...",
		Short: "Fetch the records with the given ids",
		Long:  `Fetch the records with the given ids. Unknown ids are skipped.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				recs, err := st.GetByIDs(cmd.Context(), args[0], args[1:])
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Records(recs)
			})
		},
	}
}

func newRecordUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update <table> <id> <partial-json>",
		Short:   "Update some fields of one record",
		Example: `  autocrud record update widgets 3f1c... '{"price":3}'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := parseRecordArg(cmd, args[2])
			if err != nil {
				return err
			}
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				updated, err := st.Update(cmd.Context(), args[0], args[1], partial)
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Record(updated)
			})
		},
	}
}

func newRecordUpdateManyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-many <table> <patches-json>",
		Short: "Apply several updates in order",
		Long: `Apply a JSON array of {"id": ..., "data": {...}} patches one after another.

Updates are not atomic: when one fails, the records updated before it are
printed and the command exits with that update's error.`,
		Example: `  autocrud record update-many widgets '[{"id":"a1...","data":{"price":1}}]'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			var patches []store.Patch
			if err := json.Unmarshal(data, &patches); err != nil {
				return fmt.Errorf("invalid patches JSON: %w", err)
			}
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				updated, updateErr := st.UpdateMany(cmd.Context(), args[0], patches)
				if updateErr != nil && len(updated) == 0 {
					return updateErr
				}
				if err := cmdCtx.Renderer.Records(updated); err != nil {
					return err
				}
				return updateErr
			})
		},
	}
}

func newRecordDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				ok, err := st.Delete(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Result("deleted", ok)
			})
		},
	}
}

func newRecordDeleteManyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-many <table> <id>...",
		Short: "Delete the records with the given ids",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(cmdCtx *CommandContext, st *store.Store) error {
				ok, err := st.DeleteMany(cmd.Context(), args[0], args[1:])
				if err != nil {
					return err
				}
				return cmdCtx.Renderer.Result("deleted", ok)
			})
		},
	}
}
