package models

// Optional holds a value that is either present or absent. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional wrapping v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// ValueOr returns the held value, or fallback when absent.
func (o Optional[T]) ValueOr(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}
