package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// skillCmd groups skill management
var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage skills",
}

var skillCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillCreate,
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills",
	Args:  cobra.NoArgs,
	RunE:  runSkillList,
}

// courseCmd groups course management
var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage courses and the skills they teach",
}

var courseCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a course",
	Long: `Creates a course. Every --skill must already exist.

Example:
  roster course create "Emergency Vehicle Operations" --skill Driving`,
	Args: cobra.ExactArgs(1),
	RunE: runCourseCreate,
}

var courseAddSkillCmd = &cobra.Command{
	Use:   "add-skill [course-id] [skill]",
	Short: "Add a skill to a course",
	Args:  cobra.ExactArgs(2),
	RunE:  runCourseAddSkill,
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	Args:  cobra.NoArgs,
	RunE:  runCourseList,
}

// titleCmd groups title management
var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Manage titles and the skills they require",
}

var titleCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a title",
	Long: `Creates a title requiring every --skill. A title without skills is
satisfied by anyone.

Example:
  roster title create "Police Officer" --skill Driving`,
	Args: cobra.ExactArgs(1),
	RunE: runTitleCreate,
}

var titleAddSkillCmd = &cobra.Command{
	Use:   "add-skill [title] [skill]",
	Short: "Add a required skill to a title",
	Args:  cobra.ExactArgs(2),
	RunE:  runTitleAddSkill,
}

var titleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List titles",
	Args:  cobra.NoArgs,
	RunE:  runTitleList,
}

var (
	courseSkills []string
	titleSkills  []string
)

func init() {
	courseCreateCmd.Flags().StringSliceVar(&courseSkills, "skill", nil, "Skill taught by the course (repeatable)")
	titleCreateCmd.Flags().StringSliceVar(&titleSkills, "skill", nil, "Skill required by the title (repeatable)")

	skillCmd.AddCommand(skillCreateCmd, skillListCmd)
	courseCmd.AddCommand(courseCreateCmd, courseAddSkillCmd, courseListCmd)
	titleCmd.AddCommand(titleCreateCmd, titleAddSkillCmd, titleListCmd)
}

func runSkillCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	s, err := application.Catalog.CreateSkill(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created skill %q (%s)\n", s.Name, s.ID)
	return nil
}

func runSkillList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	skills, err := application.Catalog.ListSkills(ctx)
	if err != nil {
		return err
	}
	return printSkills(cmd.OutOrStdout(), skills)
}

func runCourseCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	c, err := application.Catalog.CreateCourse(ctx, args[0], courseSkills...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created course %q (%s) teaching %s\n", c.Name, c.ID, joinOrDash(c.SkillNames))
	return nil
}

func runCourseAddSkill(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	if err := application.Catalog.AddCourseSkill(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Course %s now teaches %q\n", args[0], args[1])
	return nil
}

func runCourseList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	courses, err := application.Catalog.ListCourses(ctx)
	if err != nil {
		return err
	}
	// List does not load associations.
	for i, c := range courses {
		full, err := application.Catalog.GetCourse(ctx, c.ID)
		if err != nil {
			return err
		}
		if full != nil {
			courses[i] = full
		}
	}
	return printCourses(cmd.OutOrStdout(), courses)
}

func runTitleCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	t, err := application.Catalog.CreateTitle(ctx, args[0], titleSkills...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created title %q (%s) requiring %s\n", t.Name, t.ID, joinOrDash(t.SkillNames))
	return nil
}

func runTitleAddSkill(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	if err := application.Catalog.AddTitleSkill(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Title %q now requires %q\n", args[0], args[1])
	return nil
}

func runTitleList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	titles, err := application.Catalog.ListTitles(ctx)
	if err != nil {
		return err
	}
	return printTitles(cmd.OutOrStdout(), titles)
}
