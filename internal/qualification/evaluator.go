package qualification

import "context"

// Decision is the outcome of checking held skills against a title's required set.
type Decision struct {
	Qualified bool
	Missing   []string // required skills not held, sorted
}

// Evaluator decides whether held skills cover a required set.
type Evaluator interface {
	Evaluate(ctx context.Context, required []string, held SkillSet) (Decision, error)
}

// SetEvaluator decides coverage with an in-process subset test. An empty required set is
// always covered.
type SetEvaluator struct{}

// Evaluate returns Qualified when every required name is held.
func (SetEvaluator) Evaluate(_ context.Context, required []string, held SkillSet) (Decision, error) {
	missing := held.Missing(required)
	return Decision{Qualified: len(missing) == 0, Missing: missing}, nil
}
