package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// FieldValue is a sealed interface over the value shapes a record field can hold.
// Only String, Number, Bool, Timestamp, Object and Null implement it.
type FieldValue interface {
	fieldValue()
}

// String is a textual field value.
type String string

func (String) fieldValue() {}

// Number is a numeric field value. Integers and decimals share one representation.
type Number float64

func (Number) fieldValue() {}

// MarshalJSON renders integral numbers without a trailing fraction.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported number value: %v", f)
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// Bool is a boolean field value.
type Bool bool

func (Bool) fieldValue() {}

// Timestamp is a point-in-time field value.
type Timestamp time.Time

func (Timestamp) fieldValue() {}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// MarshalJSON renders the timestamp in RFC 3339 with nanoseconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// Object is a structured field value (JSON object or array) kept as raw JSON.
type Object json.RawMessage

func (Object) fieldValue() {}

// MarshalJSON emits the raw JSON verbatim.
func (o Object) MarshalJSON() ([]byte, error) {
	if len(o) == 0 {
		return []byte("null"), nil
	}
	return []byte(o), nil
}

// Null is the absent value.
type Null struct{}

func (Null) fieldValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// ValueOf converts a Go value into a FieldValue.
// Driver values, decoded JSON and plain Go scalars are all accepted. Values of
// unrecognized types are rendered with fmt and kept as String.
func ValueOf(v any) FieldValue {
	switch x := v.(type) {
	case nil:
		return Null{}
	case FieldValue:
		return x
	case string:
		return String(x)
	case []byte:
		return String(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(x)
	case int:
		return Number(x)
	case int8:
		return Number(x)
	case int16:
		return Number(x)
	case int32:
		return Number(x)
	case int64:
		return Number(x)
	case uint:
		return Number(x)
	case uint8:
		return Number(x)
	case uint16:
		return Number(x)
	case uint32:
		return Number(x)
	case uint64:
		return Number(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case time.Time:
		return Timestamp(x)
	case *time.Time:
		if x == nil {
			return Null{}
		}
		return Timestamp(*x)
	case json.RawMessage:
		return Object(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return String(fmt.Sprint(x))
		}
		return Object(b)
	default:
		return String(fmt.Sprint(x))
	}
}

// BindValue returns the database driver argument for a field value.
func BindValue(v FieldValue) any {
	switch x := v.(type) {
	case String:
		return string(x)
	case Number:
		return float64(x)
	case Bool:
		return bool(x)
	case Timestamp:
		return time.Time(x)
	case Object:
		return string(x)
	case Null, nil:
		return nil
	default:
		return nil
	}
}

// EqualValues reports whether two field values hold the same variant and content.
func EqualValues(a, b FieldValue) bool {
	switch x := a.(type) {
	case Timestamp:
		y, ok := b.(Timestamp)
		return ok && time.Time(x).Equal(time.Time(y))
	case Object:
		y, ok := b.(Object)
		return ok && jsonEqual(x, y)
	case Null:
		_, ok := b.(Null)
		return ok
	default:
		return a == b
	}
}

func jsonEqual(a, b []byte) bool {
	var x, y any
	if err := json.Unmarshal(a, &x); err != nil {
		return string(a) == string(b)
	}
	if err := json.Unmarshal(b, &y); err != nil {
		return false
	}
	xa, _ := json.Marshal(x)
	ya, _ := json.Marshal(y)
	return string(xa) == string(ya)
}
