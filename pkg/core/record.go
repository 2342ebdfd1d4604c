package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IDField is the server-assigned identity column present on every stored record.
const IDField = "id"

// CreatedAtField is the creation timestamp column appended to every generated table.
const CreatedAtField = "created_at"

// Record is an ordered mapping from field name to FieldValue.
// Keys keep their first insertion position; setting an existing key replaces its value in place.
// The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]FieldValue
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]FieldValue)}
}

// RecordOf builds a record from alternating key/value arguments.
// Values go through ValueOf. It panics on an odd argument count or a non-string key,
// so it is meant for literals in code and tests.
func RecordOf(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("core.RecordOf: odd number of arguments")
	}
	r := NewRecord()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("core.RecordOf: key at %d is %T, not string", i, kv[i]))
		}
		r.Set(k, ValueOf(kv[i+1]))
	}
	return r
}

// Set assigns a field value.
func (r *Record) Set(key string, v FieldValue) {
	if r.values == nil {
		r.values = make(map[string]FieldValue)
	}
	if v == nil {
		v = Null{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value for key and whether it was present.
func (r *Record) Get(key string) (FieldValue, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key if present.
func (r *Record) Delete(key string) {
	if r == nil {
		return
	}
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// ID returns the identity value as a string, or "" when the record has none.
func (r *Record) ID() string {
	v, ok := r.Get(IDField)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case String:
		return string(x)
	case Null:
		return ""
	case Number:
		return fmt.Sprint(float64(x))
	default:
		return fmt.Sprint(x)
	}
}

// Clone returns a shallow copy that can be modified independently.
func (r *Record) Clone() *Record {
	out := NewRecord()
	if r == nil {
		return out
	}
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

// Equal reports whether both records hold the same keys in the same order with equal values.
func (r *Record) Equal(o *Record) bool {
	if r.Len() != o.Len() {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || !EqualValues(r.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON emits fields in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r != nil {
		for i, k := range r.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(r.values[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
// Nested objects and arrays become Object values; strings stay String.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	*r = Record{values: make(map[string]FieldValue)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		v, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func decodeValue(raw json.RawMessage) (FieldValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Null{}, nil
	}
	switch trimmed[0] {
	case '{', '[':
		return Object(append([]byte(nil), trimmed...)), nil
	case 'n':
		return Null{}, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return String(s), nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return nil, err
		}
		return ValueOf(n), nil
	}
}

// ParseRecords decodes a JSON array of objects into records.
func ParseRecords(data []byte) ([]*Record, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	out := make([]*Record, 0, len(raws))
	for i, raw := range raws {
		rec := NewRecord()
		if err := rec.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
