// Package nullable distinguishes the three states a JSON object field can be
// in: absent, present-and-null, and present-with-value. Partial updates depend
// on that distinction: an omitted field must be left untouched while an
// explicit null clears the column.
package nullable

import "encoding/json"

// Field wraps a value that may be absent from, null in, or set by a JSON body.
// The zero value means "absent".
type Field[T any] struct {
	// Set reports whether the field appeared in the JSON object at all.
	Set bool
	// Valid reports whether the field carried a non-null value.
	Valid bool
	// Value holds the decoded value when Valid is true.
	Value T
}

// UnmarshalJSON is only invoked for fields present in the body, which is what
// makes the absent/present distinction observable.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// MarshalJSON round-trips the value; absent and null both encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer, nil when the field is absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Set || !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// IsSet reports field presence without needing the concrete type parameter.
func (f Field[T]) IsSet() bool {
	return f.Set
}

// Arg returns the value as a SQL bind argument: nil for an explicit null.
func (f Field[T]) Arg() any {
	if !f.Valid {
		return nil
	}
	return f.Value
}

// From builds a set, non-null field. Test helper and default plumbing.
func From[T any](value T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: value}
}

// Null builds a set-but-null field.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}
