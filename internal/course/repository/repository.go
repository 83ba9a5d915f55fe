package repository

import (
	"context"

	"ics-roster/internal/course/domain"
)

// Repository defines persistence for courses and the skills they teach.
type Repository interface {
	Create(ctx context.Context, c *domain.Course) error
	// GetByID returns the course with SkillNames loaded, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	// AddSkill associates the skill with the course. Adding an existing association is a no-op.
	AddSkill(ctx context.Context, courseID, skillID string) error
	// ListSkillNames returns the names of the skills the course teaches, sorted.
	ListSkillNames(ctx context.Context, courseID string) ([]string, error)
}
