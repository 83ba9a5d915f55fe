package domain

import (
	"strings"
	"time"

	"ics-roster/internal/platform/validation"
)

// Title is a role (e.g. "Police Officer") that requires a set of skills.
// Name is the lookup key and is unique.
type Title struct {
	ID         string
	Name       string
	SkillNames []string // required skills
	CreatedAt  time.Time
}

// Validate normalizes the name and checks it is present.
func (t *Title) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return validation.Single(validation.PresenceError("name"))
	}
	return nil
}
