// migrate runs the roster schema migrations from embedded SQL: go run ./cmd/migrate -direction up.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ics-roster/internal/config"
	"ics-roster/internal/db/migrate"
	"ics-roster/internal/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migrate: already at target version", zap.String("direction", *direction))
			return
		}
		logger.Error("migrate failed", zap.String("direction", *direction), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	version, dirty, err := migrate.Version(cfg.DatabaseURL)
	if err != nil {
		logger.Warn("migrate: read version", zap.Error(err))
		return
	}
	logger.Info("migrate: done",
		zap.String("direction", *direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
}
