// roster manages people, the training catalog and certifications, and answers
// skilled/qualified questions. Configuration comes from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ics-roster/internal/app"
	"ics-roster/internal/config"
	"ics-roster/internal/logging"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration

	logger      *zap.Logger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "ICS roster: people, certifications and qualifications",
	Long: `roster keeps the personnel roster: people with their ICS badge and divisions,
the skills taught by each course, the skills each title requires, and the
certifications people hold.

A person is skilled in a skill when they hold a certification that is not
Expired for a course teaching it, and qualified for a title when they are
skilled in every skill the title requires.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		var opts []app.Option
		if cmd.Annotations[annotationLazyConnect] == "true" {
			opts = append(opts, app.WithLazyConnect())
		}
		application, err = app.New(cmd.Context(), cfg, logger, opts...)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

// annotationLazyConnect marks commands that must start while the database is down.
const annotationLazyConnect = "roster/lazy-connect"

func shutdown() error {
	var err error
	if application != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = application.Close(ctx)
		application = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// commandContext bounds a command by the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(titleCmd)
	rootCmd.AddCommand(personCmd)
	rootCmd.AddCommand(certCmd)
	rootCmd.AddCommand(skilledCmd)
	rootCmd.AddCommand(qualifiedCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// PostRun does not run when a command fails.
		_ = shutdown()
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for a health report that is not serving and 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNotHealthy):
		return 2
	default:
		return 1
	}
}
