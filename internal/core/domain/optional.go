package domain

import "encoding/json"

// Optional carries a field of a partial update. The zero value means "not
// provided", which is distinct from a provided zero value such as "".
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a provided Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an Optional that was not provided.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// UnmarshalJSON marks the field as provided whenever the key is present in
// the payload, including an explicit null.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.set = true
	return json.Unmarshal(b, &o.value)
}
