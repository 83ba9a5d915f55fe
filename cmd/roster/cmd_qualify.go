package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// skilledCmd answers whether a person holds a skill
var skilledCmd = &cobra.Command{
	Use:   "skilled [person] [skill]",
	Short: "Report whether a person is skilled in a skill",
	Long: `Prints true when the person holds a certification that is not Expired for
a course teaching the skill, false otherwise. Unknown skills print false.`,
	Args: cobra.ExactArgs(2),
	RunE: runSkilled,
}

// qualifiedCmd answers whether a person meets a title
var qualifiedCmd = &cobra.Command{
	Use:   "qualified [person] [title]",
	Short: "Report whether a person is qualified for a title",
	Long: `Prints true when the person is skilled in every skill the title requires,
false otherwise, followed by any missing skills. With MISSING_TITLE_POLICY=error
an unknown title is an error instead of false.`,
	Args: cobra.ExactArgs(2),
	RunE: runQualified,
}

// titlesCmd lists the titles a person can fill
var titlesCmd = &cobra.Command{
	Use:   "titles [person]",
	Short: "List every title a person is qualified for",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitles,
}

func runSkilled(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	ok, err := application.Qualification.Skilled(ctx, p.ID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	return nil
}

func runQualified(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	res, err := application.Qualification.Check(ctx, p.ID, args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Qualified)
	if !res.Found {
		fmt.Fprintf(out, "title %q not found\n", args[1])
	} else if len(res.Missing) > 0 {
		fmt.Fprintf(out, "missing: %s\n", joinOrDash(res.Missing))
	}
	return nil
}

func runTitles(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	titles, err := application.Qualification.QualifiedTitles(ctx, p.ID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range titles {
		fmt.Fprintln(out, t)
	}
	return nil
}
