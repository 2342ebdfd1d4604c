// Package infer derives relational column types from sample record values.
//
// Classification is a pure function of a value's variant. The policy, in
// priority order, is text, number, boolean, timestamp, structured object,
// and TEXT for anything else including null.
package infer

import "github.com/leapstack-labs/autocrud/pkg/core"

// Classify returns the column type for a sample value. It never fails.
func Classify(v core.FieldValue) core.ColumnType {
	switch v.(type) {
	case core.String:
		return core.TypeText
	case core.Number:
		return core.TypeNumeric
	case core.Bool:
		return core.TypeBoolean
	case core.Timestamp:
		return core.TypeTimestamptz
	case core.Object:
		return core.TypeJSONB
	case core.Null:
		return core.TypeText
	default:
		return core.TypeText
	}
}

// Schema classifies every field of sample in insertion order.
// The id and created_at fields are skipped; they are synthesized for every table.
func Schema(table string, sample *core.Record) core.TableSchema {
	s := core.TableSchema{Name: table}
	for _, key := range sample.Keys() {
		if key == core.IDField || key == core.CreatedAtField {
			continue
		}
		v, _ := sample.Get(key)
		s.Columns = append(s.Columns, core.ColumnDef{Name: key, Type: Classify(v)})
	}
	return s
}
