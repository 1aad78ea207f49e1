package model

import (
	"bytes"
	"encoding/json"
)

// Nullable is a PATCH field for a nullable column. It tells three cases
// apart, which a plain pointer cannot:
//
//	field absent      → Set=false               (leave the column alone)
//	"field": null     → Set=true,  Value=nil    (store NULL)
//	"field": <value>  → Set=true,  Value=&value (store the value)
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a Nullable that clears the column.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Some returns a Nullable that stores v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// UnmarshalJSON only runs when the key is present, so reaching it at all
// means Set.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// ValidationValue exposes the wrapped pointer to validator, so tags such as
// "omitnil,url" apply to the value and skip an absent or null field.
func (n Nullable[T]) ValidationValue() any {
	return n.Value
}
