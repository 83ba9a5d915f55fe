package domain

import (
	"strings"
	"time"

	"ics-roster/internal/platform/validation"
)

// Skill is a named competency. Name is the lookup key and is unique.
type Skill struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate normalizes the name and checks it is present.
func (s *Skill) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return validation.Single(validation.PresenceError("name"))
	}
	return nil
}
