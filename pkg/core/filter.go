package core

// Filter is a conjunction of exact-match constraints on record fields.
// A nil or empty filter matches every row.
type Filter struct {
	rec *Record
}

// Where starts a filter with a single equality constraint.
func Where(field string, v any) *Filter {
	return (&Filter{}).And(field, v)
}

// FilterFromRecord builds a filter with one constraint per field of rec, in field order.
func FilterFromRecord(rec *Record) *Filter {
	return &Filter{rec: rec.Clone()}
}

// And adds an equality constraint. Constraining the same field twice keeps the latest value.
func (f *Filter) And(field string, v any) *Filter {
	if f.rec == nil {
		f.rec = NewRecord()
	}
	f.rec.Set(field, ValueOf(v))
	return f
}

// Fields returns the constrained field names in insertion order.
func (f *Filter) Fields() []string {
	if f == nil {
		return nil
	}
	return f.rec.Keys()
}

// Value returns the constraint for field.
func (f *Filter) Value(field string) (FieldValue, bool) {
	if f == nil {
		return nil, false
	}
	return f.rec.Get(field)
}

// Empty reports whether the filter matches all rows.
func (f *Filter) Empty() bool {
	return f == nil || f.rec.Len() == 0
}
