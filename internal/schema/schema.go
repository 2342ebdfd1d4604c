// Package schema turns sample records into table definitions and submits
// schema-changing statements to the execution backend.
//
// Every operation is a single statement in a single round trip. Nothing is
// retried, and backend failures come back as *core.SchemaError.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/autocrud/internal/infer"
	"github.com/leapstack-labs/autocrud/pkg/adapter"
	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/leapstack-labs/autocrud/pkg/dialect"
)

// Operation names used in SchemaError.
const (
	OpCreateTable   = "Create table"
	OpDropTable     = "Drop table"
	OpAlterTable    = "Alter table"
	OpUpdateRows    = "Update rows"
	OpDescribeTable = "Describe table"
)

// Executor runs statements that return no rows.
// adapter.Adapter satisfies it.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Dialect() *dialect.Dialect
}

// Describer is implemented by executors that can read a table's live columns.
type Describer interface {
	GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error)
}

// Manager creates, alters and drops tables.
type Manager struct {
	exec   Executor
	logger *slog.Logger
}

// New creates a Manager over exec.
// If logger is nil, a discard logger is used.
func New(exec Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{exec: exec, logger: logger}
}

// Dialect returns the dialect statements are rendered in.
func (m *Manager) Dialect() *dialect.Dialect {
	return m.exec.Dialect()
}

// PlanCreateTable returns the CREATE TABLE statement CreateTable would submit.
func (m *Manager) PlanCreateTable(name string, sample *core.Record) (string, error) {
	if err := requireTable(name); err != nil {
		return "", err
	}
	if sample.Len() == 0 {
		return "", core.NewValidationError("structure", "sample must have at least one field")
	}
	return RenderCreateTable(m.exec.Dialect(), infer.Schema(name, sample)), nil
}

// CreateTable creates name if it does not exist, with one column per field of sample.
// Calling it again for an existing table is a no-op, whatever the sample.
func (m *Manager) CreateTable(ctx context.Context, name string, sample *core.Record) error {
	stmt, err := m.PlanCreateTable(name, sample)
	if err != nil {
		return err
	}
	if err := m.run(ctx, OpCreateTable, name, stmt); err != nil {
		return err
	}
	m.logger.Info("table created", "table", name, "columns", sample.Len())
	return nil
}

// DropTable drops name. Dropping a missing table succeeds.
func (m *Manager) DropTable(ctx context.Context, name string) error {
	if err := requireTable(name); err != nil {
		return err
	}
	if err := m.run(ctx, OpDropTable, name, RenderDropTable(m.exec.Dialect(), name)); err != nil {
		return err
	}
	m.logger.Info("table dropped", "table", name)
	return nil
}

// AlterTable submits ALTER TABLE name clause.
// The clause is caller-supplied and passed through verbatim; only trusted input may reach it.
func (m *Manager) AlterTable(ctx context.Context, name, clause string) error {
	if err := requireTable(name); err != nil {
		return err
	}
	if strings.TrimSpace(clause) == "" {
		return core.NewValidationError("clause", "must not be empty")
	}
	if err := m.run(ctx, OpAlterTable, name, RenderAlterTable(m.exec.Dialect(), name, clause)); err != nil {
		return err
	}
	m.logger.Info("table altered", "table", name)
	return nil
}

// AlterRows submits UPDATE name SET setClause WHERE condition, defaulting the
// condition to 1=1. Both clauses are trusted input and passed through verbatim.
func (m *Manager) AlterRows(ctx context.Context, name, setClause, condition string) error {
	if err := requireTable(name); err != nil {
		return err
	}
	if strings.TrimSpace(setClause) == "" {
		return core.NewValidationError("setClause", "must not be empty")
	}
	stmt := RenderAlterRows(m.exec.Dialect(), name, setClause, condition)
	if err := m.run(ctx, OpUpdateRows, name, stmt); err != nil {
		return err
	}
	m.logger.Info("table rows updated", "table", name)
	return nil
}

// DescribeTable returns the live column list of name.
func (m *Manager) DescribeTable(ctx context.Context, name string) ([]core.Column, error) {
	if err := requireTable(name); err != nil {
		return nil, err
	}
	d, ok := m.exec.(Describer)
	if !ok {
		return nil, &core.SchemaError{Op: OpDescribeTable, Table: name, Err: fmt.Errorf("backend cannot describe tables")}
	}
	meta, err := d.GetTableMetadata(ctx, name)
	if err != nil {
		return nil, &core.SchemaError{Op: OpDescribeTable, Table: name, Err: err}
	}
	return meta.Columns, nil
}

func (m *Manager) run(ctx context.Context, op, table, stmt string) error {
	m.logger.Debug("submitting schema statement", "op", op, "table", table, "sql", stmt)
	if err := m.exec.Exec(ctx, stmt); err != nil {
		m.logger.Error("schema statement failed", "op", op, "table", table, "error", err)
		return &core.SchemaError{Op: op, Table: table, Err: err}
	}
	return nil
}

func requireTable(name string) error {
	if strings.TrimSpace(name) == "" {
		return core.NewValidationError("table", "name must not be empty")
	}
	return nil
}
