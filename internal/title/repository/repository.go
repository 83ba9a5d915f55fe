package repository

import (
	"context"

	"ics-roster/internal/title/domain"
)

// Repository defines persistence for titles and their required skills.
type Repository interface {
	Create(ctx context.Context, t *domain.Title) error
	// GetByName returns the title with SkillNames loaded, or nil if none exists.
	GetByName(ctx context.Context, name string) (*domain.Title, error)
	// List returns all titles with SkillNames loaded, ordered by name.
	List(ctx context.Context) ([]*domain.Title, error)
	// AddSkill adds skillID to the title's required set. Adding an existing association is a no-op.
	AddSkill(ctx context.Context, titleID, skillID string) error
	ListSkillNames(ctx context.Context, titleID string) ([]string, error)
}
