package engagement

// bestEffort is the outcome of a lookup whose failure only means "keep the
// default". It replaces ad hoc swallowed errors with an explicit value.
type bestEffort[T any] struct {
	value T
	err   error
}

func attempt[T any](fn func() (T, error)) bestEffort[T] {
	v, err := fn()
	return bestEffort[T]{value: v, err: err}
}

func (r bestEffort[T]) ok() bool {
	return r.err == nil
}

// orDefault returns the fetched value, or def when the fetch failed.
func (r bestEffort[T]) orDefault(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}
