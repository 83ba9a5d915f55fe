package repository

import (
	"context"
	"database/sql"
	"errors"

	"ics-roster/internal/db"
	"ics-roster/internal/platform/validation"
	"ics-roster/internal/title/domain"
)

// nameConstraint is the unique index on titles.name.
const nameConstraint = "titles_name_key"

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a title repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create persists the title. A duplicate name is reported as a uniqueness error on name.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Title) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO titles (id, name, created_at) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.CreatedAt)
	if constraint, ok := db.UniqueViolation(err); ok && constraint == nameConstraint {
		return validation.Single(validation.UniquenessError("name"))
	}
	return err
}

// GetByName returns the title with its required skill names, or nil if not found.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Title, error) {
	var t domain.Title
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM titles WHERE name = $1`, name).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	names, err := r.ListSkillNames(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.SkillNames = names
	return &t, nil
}

// List returns every title with its required skill names.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Title, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM titles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var out []*domain.Title
	for rows.Next() {
		var t domain.Title
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for _, t := range out {
		names, err := r.ListSkillNames(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.SkillNames = names
	}
	return out, nil
}

// AddSkill adds skillID to the required skills of titleID.
func (r *PostgresRepository) AddSkill(ctx context.Context, titleID, skillID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO title_skills (title_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		titleID, skillID)
	return err
}

// ListSkillNames returns the names of the skills titleID requires, sorted.
func (r *PostgresRepository) ListSkillNames(ctx context.Context, titleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.name FROM title_skills ts JOIN skills s ON s.id = ts.skill_id
		 WHERE ts.title_id = $1 ORDER BY s.name`, titleID)
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
