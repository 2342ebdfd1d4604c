// Package core defines the shared language of autocrud.
//
// This package contains:
//   - Field values and ordered records (FieldValue, Record)
//   - Inferred schema types (ColumnType, TableSchema) and equality filters
//   - The typed error taxonomy (ValidationError, SchemaError, StoreError, ErrNotFound)
//   - Adapter configuration and dialect primitives shared by pkg/adapter and pkg/dialect
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
