package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	certdomain "ics-roster/internal/certification/domain"
	coursedomain "ics-roster/internal/course/domain"
	persondomain "ics-roster/internal/person/domain"
	"ics-roster/internal/platform/validation"
	skilldomain "ics-roster/internal/skill/domain"
	titledomain "ics-roster/internal/title/domain"
)

// printError writes err; validation failures are listed one field per line.
func printError(w io.Writer, err error) {
	if v, ok := validation.As(err); ok {
		fmt.Fprintln(w, "Error: record is invalid")
		for _, e := range v.All() {
			fmt.Fprintf(w, "  %s %s\n", e.Field, e.Message)
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printSkills(w io.Writer, skills []*skilldomain.Skill) error {
	tw := newTable(w, "ID", "NAME")
	for _, s := range skills {
		fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
	}
	return tw.Flush()
}

func printCourses(w io.Writer, courses []*coursedomain.Course) error {
	tw := newTable(w, "ID", "NAME", "SKILLS")
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, joinOrDash(c.SkillNames))
	}
	return tw.Flush()
}

func printTitles(w io.Writer, titles []*titledomain.Title) error {
	tw := newTable(w, "ID", "NAME", "REQUIRES")
	for _, t := range titles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, joinOrDash(t.SkillNames))
	}
	return tw.Flush()
}

func printPeople(w io.Writer, people []*persondomain.Person) error {
	tw := newTable(w, "ID", "BADGE", "NAME", "STATE", "DIVISIONS")
	for _, p := range people {
		divisions := "-"
		if p.Division1 != "" {
			divisions = p.Division1 + " / " + p.Division2
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.BadgeID, orDash(p.FullName()), p.State, divisions)
	}
	return tw.Flush()
}

func printPerson(w io.Writer, p *persondomain.Person) {
	fmt.Fprintf(w, "ID:         %s\n", p.ID)
	fmt.Fprintf(w, "Badge:      %s\n", p.BadgeID)
	fmt.Fprintf(w, "Name:       %s\n", orDash(p.FullName()))
	fmt.Fprintf(w, "City:       %s\n", orDash(p.City))
	fmt.Fprintf(w, "State:      %s\n", p.State)
	fmt.Fprintf(w, "Zip:        %s\n", orDash(p.Zip))
	fmt.Fprintf(w, "Division 1: %s\n", orDash(p.Division1))
	fmt.Fprintf(w, "Division 2: %s\n", orDash(p.Division2))
}

func printCertifications(w io.Writer, certs []*certdomain.Certification, courseNames map[string]string) error {
	tw := newTable(w, "ID", "COURSE", "STATUS", "ISSUED")
	for _, c := range certs {
		course := c.CourseID
		if n, ok := courseNames[c.CourseID]; ok {
			course = n
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, course, c.Status, c.IssuedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}
