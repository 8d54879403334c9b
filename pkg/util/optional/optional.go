// Package optional provides a JSON field that distinguishes absent, null
// and present values in partial updates.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is a patch field. Set reports whether the key appeared in the
// document; Ptr is nil when it appeared as null.
type Value[T any] struct {
	Set bool
	Ptr *T
}

// Of returns a set, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Ptr: &v}
}

// Null returns a set, null value.
func Null[T any]() Value[T] {
	return Value[T]{Set: true}
}

// IsNull reports whether the field was sent as null.
func (v Value[T]) IsNull() bool {
	return v.Set && v.Ptr == nil
}

// UnmarshalJSON is only invoked for keys present in the document.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Ptr = nil
		return nil
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	v.Ptr = &decoded
	return nil
}

// MarshalJSON writes the value or null.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.Ptr == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.Ptr)
}
