// seed loads a roster fixture (the embedded sample by default) through the services.
// Idempotent: skills, courses and titles are matched by name, people by badge.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"ics-roster/internal/app"
	"ics-roster/internal/config"
	"ics-roster/internal/logging"
	"ics-roster/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML fixture to load (default: embedded sample roster)")
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
	if err := run(logger, cfg, *file); err != nil {
		logger.Error("seed failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(logger *zap.Logger, cfg *config.Config, file string) (err error) {
	fixture, err := loadFixture(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	report, err := a.Seeder.Apply(ctx, fixture)
	if err != nil {
		return err
	}
	fmt.Printf("Seed completed: %d skills, %d courses, %d titles, %d people, %d certifications created.\n",
		report.Skills, report.Courses, report.Titles, report.People, report.Certifications)
	return nil
}

func loadFixture(file string) (seed.Fixture, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.LoadFile(file)
}
