package repository

import (
	"context"
	"database/sql"
	"errors"

	"ics-roster/internal/db"
	"ics-roster/internal/platform/validation"
	"ics-roster/internal/skill/domain"
)

const skillColumns = `id, name, created_at`

// nameConstraint is the unique index on skills.name.
const nameConstraint = "skills_name_key"

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a skill repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create persists the skill. A duplicate name is reported as a uniqueness error on name.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Skill) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO skills (id, name, created_at) VALUES ($1, $2, $3)`,
		s.ID, s.Name, s.CreatedAt)
	if constraint, ok := db.UniqueViolation(err); ok && constraint == nameConstraint {
		return validation.Single(validation.UniquenessError("name"))
	}
	return err
}

// GetByID returns the skill for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)
	return scanSkill(row)
}

// GetByName returns the skill with the given name, or nil if not found.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE name = $1`, name)
	return scanSkill(row)
}

// List returns all skills ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Skill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Skill
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func scanSkill(row *sql.Row) (*domain.Skill, error) {
	var s domain.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
