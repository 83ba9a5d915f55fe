// Package health reports readiness of the roster's runtime dependencies.
package health

import (
	"context"
	"time"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker is implemented by the OPA qualification evaluator.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Status is the state of one dependency.
type Status string

// Component statuses, named after the gRPC health protocol values.
const (
	// StatusServing means the dependency answered.
	StatusServing Status = "SERVING"
	// StatusNotServing means the dependency failed or timed out; the report is not serving.
	StatusNotServing Status = "NOT_SERVING"
	// StatusSkipped means the dependency is not configured and was not checked.
	StatusSkipped Status = "SKIPPED"
)

// Component is the result for one dependency.
type Component struct {
	Name   string
	Status Status
	Error  string
}

// Report is the overall readiness. Serving is true when no checked component failed.
type Report struct {
	Serving    bool
	Components []Component
}

const checkTimeout = 5 * time.Second

// Checker runs the readiness checks. A nil dependency is reported as skipped.
type Checker struct {
	db     Pinger
	policy PolicyChecker
}

// NewChecker returns a checker for the given dependencies; either may be nil.
func NewChecker(db Pinger, policy PolicyChecker) *Checker {
	return &Checker{db: db, policy: policy}
}

// Check pings the database and evaluates the qualification policy.
func (c *Checker) Check(ctx context.Context) Report {
	r := Report{Serving: true}
	r.add(checkComponent(ctx, "database", c.db, func(ctx context.Context) error { return c.db.PingContext(ctx) }))
	r.add(checkComponent(ctx, "qualification_policy", c.policy, func(ctx context.Context) error { return c.policy.HealthCheck(ctx) }))
	return r
}

func (r *Report) add(comp Component) {
	if comp.Status == StatusNotServing {
		r.Serving = false
	}
	r.Components = append(r.Components, comp)
}

func checkComponent(ctx context.Context, name string, dep any, fn func(context.Context) error) Component {
	if dep == nil {
		return Component{Name: name, Status: StatusSkipped}
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return Component{Name: name, Status: StatusNotServing, Error: err.Error()}
	}
	return Component{Name: name, Status: StatusServing}
}
