// Package store provides generic create, read, update and delete operations
// over tables whose shape is only known at runtime.
//
// Records are bound as driver arguments and identifiers are quoted by the
// backend's dialect. Backend failures come back as *core.StoreError; a
// single-row lookup that matches nothing wraps core.ErrNotFound.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/autocrud/pkg/core"
	"github.com/leapstack-labs/autocrud/pkg/dialect"
)

// Operation names used in StoreError.
const (
	OpCreate     = "Create record"
	OpCreateMany = "Create records"
	OpGet        = "Get record"
	OpGetAll     = "Get all records"
	OpGetByIDs   = "Get records by IDs"
	OpUpdate     = "Update record"
	OpDelete     = "Delete record"
	OpDeleteMany = "Delete records"
)

// Backend is the query and mutate surface the store needs.
// adapter.Adapter satisfies it.
type Backend interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (*core.Rows, error)
	Dialect() *dialect.Dialect
}

// Patch is one entry of an UpdateMany call.
type Patch struct {
	ID   string       `json:"id"`
	Data *core.Record `json:"data"`
}

// Store performs record operations against a backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
	newID   func() string
}

// New creates a Store over backend.
// If logger is nil, a discard logger is used.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger, newID: uuid.NewString}
}

// Create inserts rec with a generated id and returns the stored row.
// rec must not carry an id.
func (s *Store) Create(ctx context.Context, table string, rec *core.Record) (*core.Record, error) {
	if err := validateInsert(table, rec, -1); err != nil {
		return nil, err
	}

	row := withID(s.newID(), rec)
	stmt, args := s.insert(table, row.Keys(), []*core.Record{row})

	out, err := s.query(ctx, OpCreate, table, stmt, args)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, &core.StoreError{Op: OpCreate, Table: table, Err: fmt.Errorf("expected 1 row back, got %d", len(out))}
	}
	s.logger.Debug("record created", "table", table, "id", out[0].ID())
	return out[0], nil
}

// CreateMany inserts recs in a single statement and returns the stored rows in input order.
// Either every row is inserted or the call fails. Records may have different fields;
// a field missing from one record is inserted as NULL for it.
func (s *Store) CreateMany(ctx context.Context, table string, recs []*core.Record) ([]*core.Record, error) {
	if len(recs) == 0 {
		return []*core.Record{}, nil
	}

	rows := make([]*core.Record, len(recs))
	ids := make([]string, len(recs))
	var columns []string
	seen := make(map[string]bool)
	for i, rec := range recs {
		if err := validateInsert(table, rec, i); err != nil {
			return nil, err
		}
		ids[i] = s.newID()
		rows[i] = withID(ids[i], rec)
		for _, k := range rows[i].Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	stmt, args := s.insert(table, columns, rows)
	out, err := s.query(ctx, OpCreateMany, table, stmt, args)
	if err != nil {
		return nil, err
	}

	// RETURNING order is not guaranteed; restore input order by id.
	byID := make(map[string]*core.Record, len(out))
	for _, r := range out {
		byID[r.ID()] = r
	}
	ordered := make([]*core.Record, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, &core.StoreError{Op: OpCreateMany, Table: table, Err: fmt.Errorf("inserted row %s missing from result", id)}
		}
		ordered = append(ordered, r)
	}
	s.logger.Debug("records created", "table", table, "count", len(ordered))
	return ordered, nil
}

// GetByID returns the row with the given id.
func (s *Store) GetByID(ctx context.Context, table, id string) (*core.Record, error) {
	return s.getOne(ctx, OpGet, table, id)
}

// GetAll returns every row matching all of filter's equality constraints.
// A nil or empty filter returns every row. No ordering is applied.
func (s *Store) GetAll(ctx context.Context, table string, filter *core.Filter) ([]*core.Record, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	d := s.backend.Dialect()

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(d.QuoteIdentifier(table))

	var args []any
	if !filter.Empty() {
		sb.WriteString(" WHERE ")
		for i, field := range filter.Fields() {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(d.QuoteIdentifier(field))
			v, _ := filter.Value(field)
			if _, isNull := v.(core.Null); isNull {
				sb.WriteString(" IS NULL")
				continue
			}
			args = append(args, core.BindValue(v))
			sb.WriteString(" = ")
			sb.WriteString(d.FormatPlaceholder(len(args)))
		}
	}

	out, err := s.query(ctx, OpGetAll, table, sb.String(), args)
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// GetByIDs returns the rows whose id is in ids. Unknown ids are omitted.
func (s *Store) GetByIDs(ctx context.Context, table string, ids []string) ([]*core.Record, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	ids = s.knownIDs(ids)
	if len(ids) == 0 {
		return []*core.Record{}, nil
	}
	d := s.backend.Dialect()
	in, args := inList(d, ids, 1)
	stmt := "SELECT * FROM " + d.QuoteIdentifier(table) + " WHERE " + d.QuoteIdentifier(core.IDField) + " IN (" + in + ")"

	out, err := s.query(ctx, OpGetByIDs, table, stmt, args)
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Update applies the fields of partial to the row with the given id and
// returns the full row afterwards. An empty partial returns the current row.
func (s *Store) Update(ctx context.Context, table, id string, partial *core.Record) (*core.Record, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	if partial.Has(core.IDField) {
		return nil, core.NewValidationError(core.IDField, "is server-assigned and cannot be updated")
	}
	if partial.Len() == 0 {
		return s.getOne(ctx, OpUpdate, table, id)
	}
	if !s.knownID(id) {
		return nil, notFound(OpUpdate, table, id)
	}

	d := s.backend.Dialect()
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(d.QuoteIdentifier(table))
	sb.WriteString(" SET ")

	args := make([]any, 0, partial.Len()+1)
	for i, k := range partial.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := partial.Get(k)
		args = append(args, core.BindValue(v))
		sb.WriteString(d.QuoteIdentifier(k))
		sb.WriteString(" = ")
		sb.WriteString(d.FormatPlaceholder(len(args)))
	}
	args = append(args, id)
	sb.WriteString(" WHERE ")
	sb.WriteString(d.QuoteIdentifier(core.IDField))
	sb.WriteString(" = ")
	sb.WriteString(d.FormatPlaceholder(len(args)))
	sb.WriteString(" RETURNING *")

	out, err := s.query(ctx, OpUpdate, table, sb.String(), args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, notFound(OpUpdate, table, id)
	}
	return out[0], nil
}

// UpdateMany applies each patch with Update, one at a time, in order.
//
// It is not atomic. The first failing update stops the run; updates before it
// stay committed, and the records updated so far are returned with the error.
func (s *Store) UpdateMany(ctx context.Context, table string, patches []Patch) ([]*core.Record, error) {
	out := make([]*core.Record, 0, len(patches))
	for i, p := range patches {
		rec, err := s.Update(ctx, table, p.ID, p.Data)
		if err != nil {
			s.logger.Warn("update many stopped", "table", table, "index", i, "id", p.ID, "applied", len(out), "error", err)
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the row with the given id. It reports true whether or not the row existed.
func (s *Store) Delete(ctx context.Context, table, id string) (bool, error) {
	if err := requireTable(table); err != nil {
		return false, err
	}
	if !s.knownID(id) {
		return true, nil
	}
	d := s.backend.Dialect()
	stmt := "DELETE FROM " + d.QuoteIdentifier(table) + " WHERE " + d.QuoteIdentifier(core.IDField) + " = " + d.FormatPlaceholder(1)
	if err := s.exec(ctx, OpDelete, table, stmt, []any{id}); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteMany removes every row whose id is in ids.
func (s *Store) DeleteMany(ctx context.Context, table string, ids []string) (bool, error) {
	if err := requireTable(table); err != nil {
		return false, err
	}
	ids = s.knownIDs(ids)
	if len(ids) == 0 {
		return true, nil
	}
	d := s.backend.Dialect()
	in, args := inList(d, ids, 1)
	stmt := "DELETE FROM " + d.QuoteIdentifier(table) + " WHERE " + d.QuoteIdentifier(core.IDField) + " IN (" + in + ")"
	if err := s.exec(ctx, OpDeleteMany, table, stmt, args); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) getOne(ctx context.Context, op, table, id string) (*core.Record, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	if !s.knownID(id) {
		return nil, notFound(op, table, id)
	}
	d := s.backend.Dialect()
	stmt := "SELECT * FROM " + d.QuoteIdentifier(table) + " WHERE " + d.QuoteIdentifier(core.IDField) + " = " + d.FormatPlaceholder(1)

	out, err := s.query(ctx, op, table, stmt, []any{id})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, notFound(op, table, id)
	}
	return out[0], nil
}

// insert renders a multi-row INSERT ... RETURNING * over columns.
func (s *Store) insert(table string, columns []string, rows []*core.Record) (string, []any) {
	d := s.backend.Dialect()

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdentifier(c)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteIdentifier(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(columns)*len(rows))
	for r, row := range rows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for i, c := range columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			v, ok := row.Get(c)
			if !ok {
				v = core.Null{}
			}
			args = append(args, core.BindValue(v))
			sb.WriteString(d.FormatPlaceholder(len(args)))
		}
		sb.WriteByte(')')
	}
	sb.WriteString(" RETURNING *")
	return sb.String(), args
}

func (s *Store) query(ctx context.Context, op, table, stmt string, args []any) ([]*core.Record, error) {
	rows, err := s.backend.Query(ctx, stmt, args...)
	if err != nil {
		return nil, s.fail(op, table, err)
	}
	cols, raw, err := scanRows(rows)
	_ = rows.Close()
	if err != nil {
		return nil, s.fail(op, table, err)
	}
	return toRecords(cols, raw), nil
}

func (s *Store) exec(ctx context.Context, op, table, stmt string, args []any) error {
	if err := s.backend.Exec(ctx, stmt, args...); err != nil {
		return s.fail(op, table, err)
	}
	return nil
}

// knownID reports whether id can name a row at all. A UUID id column rejects
// any other text with a type error, so such ids are treated as absent.
func (s *Store) knownID(id string) bool {
	if !s.backend.Dialect().UUIDIdentity() {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) knownIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.knownID(id) {
			out = append(out, id)
		}
	}
	return out
}

func notFound(op, table, id string) error {
	return &core.StoreError{Op: op, Table: table, Err: fmt.Errorf("id %s: %w", id, core.ErrNotFound)}
}

func (s *Store) fail(op, table string, err error) error {
	s.logger.Error("store operation failed", "op", op, "table", table, "error", err)
	return &core.StoreError{Op: op, Table: table, Err: err}
}

func validateInsert(table string, rec *core.Record, index int) error {
	if err := requireTable(table); err != nil {
		return err
	}
	if rec.Has(core.IDField) {
		if index >= 0 {
			return core.NewValidationError(core.IDField, "record %d: is server-assigned and cannot be set", index)
		}
		return core.NewValidationError(core.IDField, "is server-assigned and cannot be set")
	}
	return nil
}

func requireTable(table string) error {
	if strings.TrimSpace(table) == "" {
		return core.NewValidationError("table", "name must not be empty")
	}
	return nil
}

// withID returns a copy of rec with id as its first field.
func withID(id string, rec *core.Record) *core.Record {
	out := core.NewRecord()
	out.Set(core.IDField, core.String(id))
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		out.Set(k, v)
	}
	return out
}

func inList(d *dialect.Dialect, ids []string, start int) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
		ph[i] = d.FormatPlaceholder(start + i)
	}
	return strings.Join(ph, ", "), args
}

func nonNil(recs []*core.Record) []*core.Record {
	if recs == nil {
		return []*core.Record{}
	}
	return recs
}
