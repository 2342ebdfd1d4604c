package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/autocrud/pkg/core"
)

// timestampLayouts are the text forms backends use for timestamp columns.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// column is a result column and the type the driver declared for it.
type column struct {
	name   string
	dbType string
}

// scanRows reads every row's raw driver values. The caller closes rows.
func scanRows(rows *core.Rows) ([]column, [][]any, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}
	cols := make([]column, len(types))
	for i, ct := range types {
		cols[i] = column{name: ct.Name(), dbType: ct.DatabaseTypeName()}
	}

	var raw [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		raw = append(raw, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cols, raw, nil
}

// toRecords converts raw rows into records keyed by column name.
func toRecords(cols []column, raw [][]any) []*core.Record {
	out := make([]*core.Record, 0, len(raw))
	for _, vals := range raw {
		rec := core.NewRecord()
		for i, c := range cols {
			rec.Set(c.name, decodeValue(c.dbType, vals[i]))
		}
		out = append(out, rec)
	}
	return out
}

// decodeValue maps a driver value to a FieldValue using the column's declared
// type, so every backend yields the same variants.
func decodeValue(dbType string, v any) core.FieldValue {
	if v == nil {
		return core.Null{}
	}
	t := strings.ToUpper(dbType)

	switch {
	case t == "UUID":
		return decodeUUID(v)
	case strings.Contains(t, "BOOL"):
		return decodeBool(v)
	case strings.HasPrefix(t, "JSON"):
		return decodeJSON(v)
	case strings.HasPrefix(t, "TIMESTAMP"), t == "DATETIME", t == "DATE":
		return decodeTime(v)
	case isNumericType(t):
		return decodeNumber(v)
	}

	if b, ok := v.([]byte); ok {
		return core.String(b)
	}
	return core.ValueOf(v)
}

var numericPrefixes = []string{
	"NUMERIC", "DECIMAL", "DOUBLE", "REAL", "FLOAT",
	"INT", "BIGINT", "SMALLINT", "TINYINT", "HUGEINT", "UBIGINT", "UINTEGER",
}

func isNumericType(t string) bool {
	for _, p := range numericPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

func decodeUUID(v any) core.FieldValue {
	switch x := v.(type) {
	case [16]byte:
		return core.String(uuid.UUID(x).String())
	case []byte:
		if len(x) == 16 {
			if id, err := uuid.FromBytes(x); err == nil {
				return core.String(id.String())
			}
		}
		return core.String(x)
	case string:
		return core.String(x)
	case fmt.Stringer:
		return core.String(x.String())
	default:
		return core.ValueOf(v)
	}
}

func decodeBool(v any) core.FieldValue {
	switch x := v.(type) {
	case bool:
		return core.Bool(x)
	case int64:
		return core.Bool(x != 0)
	case int:
		return core.Bool(x != 0)
	case float64:
		return core.Bool(x != 0)
	case []byte:
		return decodeBool(string(x))
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return core.Bool(b)
		}
		return core.String(x)
	default:
		return core.ValueOf(v)
	}
}

func decodeJSON(v any) core.FieldValue {
	var raw []byte
	switch x := v.(type) {
	case []byte:
		raw = x
	case string:
		raw = []byte(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return core.ValueOf(v)
		}
		raw = b
	}
	if !json.Valid(raw) {
		return core.String(raw)
	}
	return core.Object(append([]byte(nil), raw...))
}

func decodeTime(v any) core.FieldValue {
	switch x := v.(type) {
	case time.Time:
		return core.Timestamp(x)
	case []byte:
		return decodeTime(string(x))
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, x); err == nil {
				return core.Timestamp(ts)
			}
		}
		return core.String(x)
	default:
		return core.ValueOf(v)
	}
}

func decodeNumber(v any) core.FieldValue {
	switch x := v.(type) {
	case []byte:
		return decodeNumber(string(x))
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return core.Number(f)
		}
		return core.String(x)
	case interface{ Float64() float64 }:
		return core.Number(x.Float64())
	default:
		return core.ValueOf(v)
	}
}
