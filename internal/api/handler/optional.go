package handler

import (
	"encoding/json"

	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// Optional is a JSON patch field that distinguishes three states: absent
// from the body, present as explicit null, and present with a value.
// Absent fields leave the stored value unchanged; explicit null clears it.
type Optional[T any] struct {
	present bool
	valid   bool
	value   T
}

// UnmarshalJSON is only invoked when the key is present in the body, which
// is what makes the absent/null distinction observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}

// Nullable converts the field to the service-layer patch representation.
func (o Optional[T]) Nullable() ports.Nullable[T] {
	return ports.Nullable[T]{Present: o.present, Valid: o.valid, Value: o.value}
}

// Get returns the value and whether it was present and non-null.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present && o.valid
}
