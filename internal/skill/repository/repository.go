package repository

import (
	"context"

	"ics-roster/internal/skill/domain"
)

// Repository defines persistence for skills.
type Repository interface {
	Create(ctx context.Context, s *domain.Skill) error
	GetByID(ctx context.Context, id string) (*domain.Skill, error)
	// GetByName returns the skill with the exact name, or nil if none exists.
	GetByName(ctx context.Context, name string) (*domain.Skill, error)
	List(ctx context.Context) ([]*domain.Skill, error)
}
