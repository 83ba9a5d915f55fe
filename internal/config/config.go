// Package config loads and validates roster config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Qualification engines.
const (
	EngineSet = "set"
	EngineOPA = "opa"
)

// Missing-title policies for qualification checks.
const (
	MissingTitleDeny  = "deny"
	MissingTitleError = "error"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN. Required by every command that touches the roster.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production"). "development" switches to console logs.
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// OTLPEndpoint is the OTLP gRPC collector (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the otel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// KafkaBrokers is a comma-separated list of Kafka brokers. When set, roster events are published.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsTopic is the Kafka topic for roster events.
	EventsTopic string `mapstructure:"ROSTER_EVENTS_TOPIC"`

	// QualificationEngine selects how title coverage is decided: "set" (in-process) or "opa" (Rego policy).
	QualificationEngine string `mapstructure:"QUALIFICATION_ENGINE"`
	// QualificationPolicyFile is an optional Rego file replacing the default qualification policy (opa engine only).
	QualificationPolicyFile string `mapstructure:"QUALIFICATION_POLICY_FILE"`
	// MissingTitlePolicy decides qualified? for an unknown title: "deny" returns false, "error" returns not found.
	MissingTitlePolicy string `mapstructure:"MISSING_TITLE_POLICY"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "ics-roster")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("ROSTER_EVENTS_TOPIC", "roster-events")
	v.SetDefault("QUALIFICATION_ENGINE", EngineSet)
	v.SetDefault("QUALIFICATION_POLICY_FILE", "")
	v.SetDefault("MISSING_TITLE_POLICY", MissingTitleDeny)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.QualificationEngine = strings.ToLower(strings.TrimSpace(c.QualificationEngine))
	switch c.QualificationEngine {
	case EngineSet, EngineOPA:
	default:
		return fmt.Errorf("config: QUALIFICATION_ENGINE must be %q or %q, got %q", EngineSet, EngineOPA, c.QualificationEngine)
	}
	if c.QualificationPolicyFile != "" && c.QualificationEngine != EngineOPA {
		return errors.New("config: QUALIFICATION_POLICY_FILE requires QUALIFICATION_ENGINE=opa")
	}
	c.MissingTitlePolicy = strings.ToLower(strings.TrimSpace(c.MissingTitlePolicy))
	switch c.MissingTitlePolicy {
	case MissingTitleDeny, MissingTitleError:
	default:
		return fmt.Errorf("config: MISSING_TITLE_POLICY must be %q or %q, got %q", MissingTitleDeny, MissingTitleError, c.MissingTitlePolicy)
	}
	if c.EventsTopic == "" {
		c.EventsTopic = "roster-events"
	}
	return nil
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if event publishing is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
