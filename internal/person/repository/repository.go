package repository

import (
	"context"

	"ics-roster/internal/person/domain"
)

// Repository defines persistence for people.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	// GetByBadgeID returns the person holding badgeID, or nil if none does.
	GetByBadgeID(ctx context.Context, badgeID string) (*domain.Person, error)
	List(ctx context.Context) ([]*domain.Person, error)
	// Create persists p. A taken badge is reported as a uniqueness error on badge_id.
	Create(ctx context.Context, p *domain.Person) error
	Update(ctx context.Context, p *domain.Person) error
}
