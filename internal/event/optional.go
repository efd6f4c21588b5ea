package event

import "encoding/json"

// Optional is a field of a partial update. Present is false when the key was missing
// from the payload; a present JSON null leaves Value at its zero value, so nullable
// fields use a pointer T to tell "cleared" from "unchanged".
type Optional[T any] struct {
	Present bool
	Value   T
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Present }

// Apply stores the value into dst when present.
func (o Optional[T]) Apply(dst *T) {
	if o.Present {
		*dst = o.Value
	}
}

// UnmarshalJSON is only invoked for keys that exist in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the value; absent optionals encode as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
