package services

// Result is the outcome of a best-effort step. A degraded result carries no
// value and lets the pipeline continue with reduced input.
type Result[T any] struct {
	value  T
	reason string
	ok     bool
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

func Degraded[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

func (r Result[T]) IsDegraded() bool {
	return !r.ok
}

func (r Result[T]) Reason() string {
	return r.reason
}

// Degradation records a best-effort step that did not contribute input.
type Degradation struct {
	Input  string
	Reason string
}
