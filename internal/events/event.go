// Package events defines roster change events and best-effort delivery helpers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names a roster change.
type Type string

const (
	PersonCreated              Type = "person.created"
	PersonUpdated              Type = "person.updated"
	CertificationIssued        Type = "certification.issued"
	CertificationStatusChanged Type = "certification.status_changed"
)

// Event is a single roster change. Fields not relevant to Type are empty.
type Event struct {
	ID              string    `json:"id"`
	Type            Type      `json:"type"`
	PersonID        string    `json:"person_id,omitempty"`
	CertificationID string    `json:"certification_id,omitempty"`
	CourseID        string    `json:"course_id,omitempty"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// New returns an event of type t with a fresh ID and the current UTC time.
func New(t Type) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}
}
