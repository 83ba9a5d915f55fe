package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	catalogservice "ics-roster/internal/catalog/service"
	certdomain "ics-roster/internal/certification/domain"
)

// certCmd groups certification management
var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Issue certifications and record status changes",
}

var certIssueCmd = &cobra.Command{
	Use:   "issue [person] [course]",
	Short: "Record that a person completed a course",
	Long: `Issues a certification. [person] is an ID or badge number; [course] is a
course ID or name.

Example:
  roster cert issue 509 "Emergency Vehicle Operations"`,
	Args: cobra.ExactArgs(2),
	RunE: runCertIssue,
}

var certSetStatusCmd = &cobra.Command{
	Use:   "set-status [certification-id] [Active|Expired]",
	Short: "Change a certification's status",
	Long: `Changes a certification's status. Expired certifications no longer grant
their course's skills.`,
	Args: cobra.ExactArgs(2),
	RunE: runCertSetStatus,
}

var certListCmd = &cobra.Command{
	Use:   "list [person]",
	Short: "List a person's certifications, expired ones included",
	Args:  cobra.ExactArgs(1),
	RunE:  runCertList,
}

var certStatus string

func init() {
	certIssueCmd.Flags().StringVar(&certStatus, "status", string(certdomain.StatusActive), "Initial status: Active or Expired")

	certCmd.AddCommand(certIssueCmd, certSetStatusCmd, certListCmd)
}

// resolveCourseID looks ref up as a course ID, then as a course name.
func resolveCourseID(ctx context.Context, ref string) (string, error) {
	c, err := application.Catalog.GetCourse(ctx, ref)
	if err != nil {
		return "", err
	}
	if c != nil {
		return c.ID, nil
	}
	c, err = application.Catalog.FindCourse(ctx, ref)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", fmt.Errorf("%w: no course with ID or name %q", catalogservice.ErrCourseNotFound, ref)
	}
	return c.ID, nil
}

func runCertIssue(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	courseID, err := resolveCourseID(ctx, args[1])
	if err != nil {
		return err
	}
	c, err := application.Certifications.Issue(ctx, p.ID, courseID, certdomain.Status(certStatus))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Issued certification %s (%s) to badge %s\n", c.ID, c.Status, p.BadgeID)
	return nil
}

func runCertSetStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	c, err := application.Certifications.SetStatus(ctx, args[0], certdomain.Status(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Certification %s is %s\n", c.ID, c.Status)
	return nil
}

func runCertList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	certs, err := application.Certifications.ListForPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	names, err := courseNames(ctx)
	if err != nil {
		return err
	}
	return printCertifications(cmd.OutOrStdout(), certs, names)
}
