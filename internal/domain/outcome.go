package domain

// Outcome is the per-unit result of a pipeline stage: either a value or a
// skip. Stages return skips instead of propagating errors upward so the
// orchestrator can aggregate them without one bad unit discarding its
// siblings.
type Outcome[T any] struct {
	Value T
	Skip  *StageError
}

// Ok wraps a successful value.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value}
}

// Skipped wraps a unit failure.
func Skipped[T any](stage, context string, err error) Outcome[T] {
	return Outcome[T]{Skip: &StageError{Stage: stage, Context: context, Message: err.Error()}}
}

// IsSkipped reports whether the unit was skipped.
func (o Outcome[T]) IsSkipped() bool {
	return o.Skip != nil
}
