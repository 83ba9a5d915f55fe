package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ics-roster/internal/config"
	"ics-roster/internal/health"
	"ics-roster/internal/qualification"
)

// unreachableDSN points at a port nothing listens on.
const unreachableDSN = "postgres://u:p@127.0.0.1:1/x?connect_timeout=2"

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New(context.Background(), &config.Config{}, nil)
	if !errors.Is(err, ErrMissingDSN) {
		t.Fatalf("New = %v, want ErrMissingDSN", err)
	}
}

func TestNew_LazyConnectReportsUnreachableDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DatabaseURL: unreachableDSN, QualificationEngine: config.EngineOPA}

	if _, err := New(ctx, cfg, nil); err == nil {
		t.Fatal("New should fail when the database does not answer the ping")
	}

	a, err := New(ctx, cfg, nil, WithLazyConnect())
	if err != nil {
		t.Fatalf("New with lazy connect: %v", err)
	}
	defer a.Close(ctx)

	report := a.Health.Check(ctx)
	if report.Serving {
		t.Error("report should not be serving with an unreachable database")
	}
	got := map[string]health.Status{}
	for _, c := range report.Components {
		got[c.Name] = c.Status
		if c.Name == "database" && c.Error == "" {
			t.Error("database component should carry the connection error")
		}
	}
	want := map[string]health.Status{
		"database":             health.StatusNotServing,
		"qualification_policy": health.StatusServing,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("component statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEvaluator(t *testing.T) {
	ctx := context.Background()

	e, checker, err := NewEvaluator(ctx, &config.Config{QualificationEngine: config.EngineSet})
	if err != nil {
		t.Fatalf("set engine: %v", err)
	}
	if _, ok := e.(qualification.SetEvaluator); !ok {
		t.Errorf("set engine evaluator = %T", e)
	}
	if checker != nil {
		t.Error("set engine should have no policy checker")
	}

	e, checker, err = NewEvaluator(ctx, &config.Config{QualificationEngine: config.EngineOPA})
	if err != nil {
		t.Fatalf("opa engine: %v", err)
	}
	if _, ok := e.(*qualification.OPAEvaluator); !ok {
		t.Errorf("opa engine evaluator = %T", e)
	}
	if checker == nil {
		t.Fatal("opa engine should expose a policy checker")
	}
	if err := checker.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestNewEvaluator_PolicyFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "qualification.rego")
	if err := os.WriteFile(path, []byte("package roster.qualification\n\nqualified := true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, _, err := NewEvaluator(ctx, &config.Config{QualificationEngine: config.EngineOPA, QualificationPolicyFile: path})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	d, err := e.Evaluate(ctx, []string{"Driving"}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !d.Qualified {
		t.Error("allow-all policy should qualify")
	}

	_, _, err = NewEvaluator(ctx, &config.Config{QualificationEngine: config.EngineOPA, QualificationPolicyFile: filepath.Join(dir, "missing.rego")})
	if err == nil {
		t.Error("missing policy file should fail")
	}
}

func TestMissingTitlePolicy(t *testing.T) {
	if got := MissingTitlePolicy(config.MissingTitleError); got != qualification.MissingTitleError {
		t.Errorf("error = %v, want MissingTitleError", got)
	}
	for _, s := range []string{config.MissingTitleDeny, ""} {
		if got := MissingTitlePolicy(s); got != qualification.MissingTitleDeny {
			t.Errorf("%q = %v, want MissingTitleDeny", s, got)
		}
	}
}
