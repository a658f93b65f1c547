// Package opt provides a present-or-absent value, used by Modify to express
// upsert (present) and delete (absent) in one call.
package opt

import "fmt"

// Value holds a V or nothing. The zero Value is absent.
type Value[V any] struct {
	v  V
	ok bool
}

// Some returns a present value.
func Some[V any](v V) Value[V] {
	return Value[V]{v: v, ok: true}
}

// None returns an absent value.
func None[V any]() Value[V] {
	return Value[V]{}
}

// From converts a comma-ok pair, as returned by lookups, into a Value.
func From[V any](v V, ok bool) Value[V] {
	if !ok {
		return None[V]()
	}
	return Some(v)
}

// Get returns the value and whether it is present.
func (o Value[V]) Get() (V, bool) { return o.v, o.ok }

// IsSome reports whether a value is present.
func (o Value[V]) IsSome() bool { return o.ok }

// Or returns the value if present, otherwise def.
func (o Value[V]) Or(def V) V {
	if o.ok {
		return o.v
	}
	return def
}

func (o Value[V]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.v)
}
