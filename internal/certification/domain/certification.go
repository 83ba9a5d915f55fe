package domain

import (
	"time"

	"ics-roster/internal/platform/validation"
)

// Certification records that a person completed a course. CourseID never changes after
// creation; Status is set externally (e.g. by an expiration sweep).
type Certification struct {
	ID        string
	PersonID  string
	CourseID  string
	Status    Status
	IssuedAt  time.Time
	UpdatedAt time.Time
}

// Status is the lifecycle state of a certification. Only Active certifications count
// toward skills.
type Status string

// Certification statuses. The values are stored verbatim in the certification_status enum.
const (
	StatusActive  Status = "Active"
	StatusExpired Status = "Expired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired:
		return true
	}
	return false
}

// Counts reports whether a certification with this status grants its course's skills.
// Only Expired is excluded.
func (s Status) Counts() bool {
	return s != StatusExpired
}

// Validate checks the certification for persistence. An empty status defaults to Active.
func (c *Certification) Validate() error {
	if c.Status == "" {
		c.Status = StatusActive
	}
	v := &validation.Errors{}
	if validation.IsBlank(c.PersonID) {
		v.Add(validation.PresenceError("person_id"))
	}
	if validation.IsBlank(c.CourseID) {
		v.Add(validation.PresenceError("course_id"))
	}
	if !c.Status.Valid() {
		v.Add(validation.InclusionError("status"))
	}
	return v.Err()
}
