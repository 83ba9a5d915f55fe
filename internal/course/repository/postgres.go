package repository

import (
	"context"
	"database/sql"
	"errors"

	"ics-roster/internal/course/domain"
	"ics-roster/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a course repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create persists the course. Skill associations are added separately with AddSkill.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt)
	return err
}

// GetByID returns the course for id with its skill names, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	var c domain.Course
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	names, err := r.ListSkillNames(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.SkillNames = names
	return &c, nil
}

// List returns all courses ordered by name. SkillNames is not loaded.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM courses ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// AddSkill associates skillID with courseID.
func (r *PostgresRepository) AddSkill(ctx context.Context, courseID, skillID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO course_skills (course_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		courseID, skillID)
	return err
}

// ListSkillNames returns the names of the skills taught by courseID.
func (r *PostgresRepository) ListSkillNames(ctx context.Context, courseID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.name FROM course_skills cs JOIN skills s ON s.id = cs.skill_id
		 WHERE cs.course_id = $1 ORDER BY s.name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
