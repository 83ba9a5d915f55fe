package domain

import (
	"strings"
	"time"

	"ics-roster/internal/platform/validation"
)

// Course is a training program; completing it grants the skills it teaches.
// SkillNames is populated by repositories that load the course_skills association.
type Course struct {
	ID         string
	Name       string
	SkillNames []string
	CreatedAt  time.Time
}

// Validate normalizes the name and checks it is present.
func (c *Course) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return validation.Single(validation.PresenceError("name"))
	}
	return nil
}

// Teaches reports whether skillName is among the course's skills.
func (c *Course) Teaches(skillName string) bool {
	for _, n := range c.SkillNames {
		if n == skillName {
			return true
		}
	}
	return false
}
