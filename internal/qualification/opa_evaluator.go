package qualification

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.roster.qualification"

// DefaultPolicy is the Rego policy used when no custom policy is configured. It must
// define "qualified" (bool) and "missing" (set of skill names) in package roster.qualification.
const DefaultPolicy = `package roster.qualification

default qualified := false

missing contains s if {
	some s in input.required
	not input.held[s]
}

qualified if count(missing) == 0
`

// OPAEvaluator decides coverage by evaluating a Rego policy with OPA. The policy is
// compiled once at construction.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles policy (DefaultPolicy when empty) and returns an evaluator.
func NewOPAEvaluator(ctx context.Context, policy string) (*OPAEvaluator, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	pq, err := rego.New(
		rego.Query(policyQuery),
		rego.Module("qualification.rego", policy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile qualification policy: %w", err)
	}
	return &OPAEvaluator{query: pq}, nil
}

// NewOPAEvaluatorFromFile reads a Rego policy from path and compiles it.
func NewOPAEvaluatorFromFile(ctx context.Context, path string) (*OPAEvaluator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read qualification policy: %w", err)
	}
	return NewOPAEvaluator(ctx, string(b))
}

// Evaluate runs the policy with input {"required": [...], "held": {name: true}}.
func (e *OPAEvaluator) Evaluate(ctx context.Context, required []string, held SkillSet) (Decision, error) {
	heldMap := make(map[string]interface{}, len(held))
	for n := range held {
		heldMap[n] = true
	}
	req := make([]interface{}, 0, len(required))
	for _, n := range required {
		req = append(req, n)
	}
	input := map[string]interface{}{
		"required": req,
		"held":     heldMap,
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, fmt.Errorf("eval qualification policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return Decision{}, fmt.Errorf("qualification policy returned no result")
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{}, fmt.Errorf("qualification policy result is %T, want object", rs[0].Expressions[0].Value)
	}

	var d Decision
	if q, ok := doc["qualified"].(bool); ok {
		d.Qualified = q
	}
	if raw, ok := doc["missing"].([]interface{}); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				d.Missing = append(d.Missing, s)
			}
		}
		sort.Strings(d.Missing)
	}
	return d, nil
}

// healthCheckSkill is the single skill required and held by the HealthCheck decision.
const healthCheckSkill = "health-check"

// HealthCheck evaluates a canary decision with the compiled policy: one required skill that
// is held must be qualified. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	d, err := e.Evaluate(ctx, []string{healthCheckSkill}, NewSkillSet(healthCheckSkill))
	if err != nil {
		return err
	}
	if !d.Qualified {
		return fmt.Errorf("qualification policy denied a fully covered title")
	}
	return nil
}
