package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotHealthy = errors.New("not serving")

// healthCmd checks readiness of the database and qualification policy
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the database and qualification policy",
	Long: `Pings the database and, with QUALIFICATION_ENGINE=opa, evaluates a canary
decision against the compiled policy. An unreachable database is reported as
NOT_SERVING. Exits with status 2 when not serving.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationLazyConnect: "true"},
	RunE:        runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	report := application.Health.Check(ctx)
	tw := newTable(cmd.OutOrStdout(), "COMPONENT", "STATUS", "ERROR")
	for _, c := range report.Components {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Status, orDash(c.Error))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !report.Serving {
		return errNotHealthy
	}
	return nil
}
