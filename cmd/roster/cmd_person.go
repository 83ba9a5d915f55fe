package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	persondomain "ics-roster/internal/person/domain"
	personservice "ics-roster/internal/person/service"
)

// personCmd groups person management
var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Manage people",
	Long: `Manage people on the roster. Commands taking [person] accept either the
person's ID or their badge number.`,
}

var personCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a person",
	Long: `Creates a person. The badge must be unique, the state exactly two
characters, and division1/division2 either both set or both blank.

Example:
  roster person create --badge 509 --first-name Dana --last-name Reyes --state MA`,
	Args: cobra.NoArgs,
	RunE: runPersonCreate,
}

var personUpdateCmd = &cobra.Command{
	Use:   "update [person]",
	Short: "Update a person; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonUpdate,
}

var personShowCmd = &cobra.Command{
	Use:   "show [person]",
	Short: "Show a person with certifications and qualified titles",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonShow,
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List people",
	Args:  cobra.NoArgs,
	RunE:  runPersonList,
}

// personFields holds the person flags shared by create and update.
type personFields struct {
	firstName, lastName, city, state, zip string
	division1, division2, badge           string
}

var (
	createFields personFields
	updateFields personFields
)

func (f *personFields) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.badge, "badge", "", "ICS badge number")
	fs.StringVar(&f.firstName, "first-name", "", "First name")
	fs.StringVar(&f.lastName, "last-name", "", "Last name")
	fs.StringVar(&f.city, "city", "", "City")
	fs.StringVar(&f.state, "state", "", "Two-letter state code")
	fs.StringVar(&f.zip, "zip", "", "Zip code")
	fs.StringVar(&f.division1, "division1", "", "Primary division (requires --division2)")
	fs.StringVar(&f.division2, "division2", "", "Secondary division (requires --division1)")
}

// apply copies the flags that were set on fs onto p.
func (f *personFields) apply(fs *pflag.FlagSet, p *persondomain.Person) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("badge", &p.BadgeID, f.badge)
	set("first-name", &p.FirstName, f.firstName)
	set("last-name", &p.LastName, f.lastName)
	set("city", &p.City, f.city)
	set("state", &p.State, f.state)
	set("zip", &p.Zip, f.zip)
	set("division1", &p.Division1, f.division1)
	set("division2", &p.Division2, f.division2)
}

func init() {
	createFields.register(personCreateCmd.Flags())
	_ = personCreateCmd.MarkFlagRequired("badge")
	_ = personCreateCmd.MarkFlagRequired("state")
	updateFields.register(personUpdateCmd.Flags())

	personCmd.AddCommand(personCreateCmd, personUpdateCmd, personShowCmd, personListCmd)
}

// resolvePerson looks ref up as a person ID, then as a badge number.
func resolvePerson(ctx context.Context, ref string) (*persondomain.Person, error) {
	p, err := application.People.Get(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, personservice.ErrPersonNotFound) {
		return nil, err
	}
	p, err = application.People.GetByBadge(ctx, ref)
	if errors.Is(err, personservice.ErrPersonNotFound) {
		return nil, fmt.Errorf("%w: no person with ID or badge %q", personservice.ErrPersonNotFound, ref)
	}
	return p, err
}

func runPersonCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p := &persondomain.Person{}
	createFields.apply(cmd.Flags(), p)
	if err := application.People.Create(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created person %s (badge %s)\n", p.ID, p.BadgeID)
	return nil
}

func runPersonUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	updateFields.apply(cmd.Flags(), p)
	if err := application.People.Update(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated person %s (badge %s)\n", p.ID, p.BadgeID)
	return nil
}

func runPersonShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := resolvePerson(ctx, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printPerson(out, p)

	certs, err := application.Certifications.ListForPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	names, err := courseNames(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Certifications:")
	if err := printCertifications(out, certs, names); err != nil {
		return err
	}

	titles, err := application.Qualification.QualifiedTitles(ctx, p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Qualified titles: %s\n", joinOrDash(titles))
	return nil
}

func runPersonList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	people, err := application.People.List(ctx)
	if err != nil {
		return err
	}
	return printPeople(cmd.OutOrStdout(), people)
}

// courseNames maps course IDs to names for display.
func courseNames(ctx context.Context) (map[string]string, error) {
	courses, err := application.Catalog.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(courses))
	for _, c := range courses {
		out[c.ID] = c.Name
	}
	return out, nil
}
