package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"ics-roster/internal/platform/validation"
)

// StateLength is the required length of Person.State (a postal state code such as "MA").
const StateLength = 2

// Person is a member of the roster. BadgeID is the ICS badge number and is unique across
// all people; uniqueness is checked by the person service and the storage layer.
type Person struct {
	ID        string
	FirstName string
	LastName  string
	City      string
	State     string
	Zip       string
	Division1 string // optional; set together with Division2
	Division2 string // optional; set together with Division1
	BadgeID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the field-level rules: a badge is present, state is exactly two characters
// and the division pair is either fully blank or fully set. All failures are reported.
func (p *Person) Validate() error {
	p.BadgeID = strings.TrimSpace(p.BadgeID)
	p.Division1 = strings.TrimSpace(p.Division1)
	p.Division2 = strings.TrimSpace(p.Division2)
	v := &validation.Errors{}
	if p.BadgeID == "" {
		v.Add(validation.PresenceError("badge_id"))
	}
	if utf8.RuneCountInString(p.State) != StateLength {
		v.Add(validation.FormatError("state", "is the wrong length (should be 2 characters)"))
	}
	d1Blank := p.Division1 == ""
	d2Blank := p.Division2 == ""
	switch {
	case d1Blank && !d2Blank:
		v.Add(validation.ConsistencyError("division1", "can't be blank when division2 is present"))
	case !d1Blank && d2Blank:
		v.Add(validation.ConsistencyError("division2", "can't be blank when division1 is present"))
	}
	return v.Err()
}

// FullName returns "First Last", trimmed.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
