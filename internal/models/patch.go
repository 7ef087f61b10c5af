package models

import "time"

// Optional carries a value together with whether it was supplied at all.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// UserPatch lists the profile fields a caller wants to change. Unset fields are
// left as they are. Status is kept raw; the user service parses it.
type UserPatch struct {
	Username Optional[string]
	Birthday Optional[time.Time]
	Status   Optional[string]
}
