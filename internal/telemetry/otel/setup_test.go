package otel

import (
	"context"
	"testing"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"", "   "} {
		providers, err := NewProviders(ctx, Options{Endpoint: endpoint, ServiceName: "test-service"})
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", endpoint, err)
		}
		if providers.TracerProvider == nil || providers.MeterProvider == nil || providers.LoggerProvider == nil {
			t.Fatal("providers should not be nil")
		}
		if err := providers.Shutdown(ctx); err != nil {
			t.Errorf("shutdown should be no-op for empty endpoint, got error: %v", err)
		}
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"http://", "http://[invalid"} {
		if _, err := NewProviders(ctx, Options{Endpoint: endpoint, ServiceName: "test-service"}); err == nil {
			t.Errorf("NewProviders(%q) should return error", endpoint)
		}
	}
}

func TestParseEndpoint(t *testing.T) {
	testCases := []struct {
		name         string
		endpoint     string
		override     bool
		wantTarget   string
		wantInsecure bool
	}{
		{"bare host port", "localhost:4317", false, "localhost:4317", true},
		{"http url with path", "http://collector:4317/v1/traces", false, "collector:4317", true},
		{"https uses tls", "https://collector:4317", false, "collector:4317", false},
		{"https with insecure override", "https://collector:4317", true, "collector:4317", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, insecure, err := parseEndpoint(tc.endpoint, tc.override)
			if err != nil {
				t.Fatalf("parseEndpoint: %v", err)
			}
			if target != tc.wantTarget {
				t.Errorf("target = %q, want %q", target, tc.wantTarget)
			}
			if insecure != tc.wantInsecure {
				t.Errorf("insecure = %v, want %v", insecure, tc.wantInsecure)
			}
		})
	}
}

func TestNewProviders_WithEndpoint(t *testing.T) {
	// Exporters connect lazily, so construction succeeds without a collector.
	ctx := context.Background()
	providers, err := NewProviders(ctx, Options{Endpoint: "localhost:4317", ServiceName: "test-service", Insecure: true})
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	providers.SetGlobal()
	shutdownCtx, cancel := context.WithTimeout(ctx, 0)
	defer cancel()
	_ = providers.Shutdown(shutdownCtx)
}
