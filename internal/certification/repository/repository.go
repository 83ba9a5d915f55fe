package repository

import (
	"context"
	"time"

	"ics-roster/internal/certification/domain"
)

// Repository defines persistence for certifications.
type Repository interface {
	Create(ctx context.Context, c *domain.Certification) error
	GetByID(ctx context.Context, id string) (*domain.Certification, error)
	// ListByPerson returns the person's certifications in issue order, all statuses included.
	ListByPerson(ctx context.Context, personID string) ([]*domain.Certification, error)
	// UpdateStatus sets the status. Returns nil if no certification has id.
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error
}
