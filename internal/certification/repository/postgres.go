package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ics-roster/internal/certification/domain"
	"ics-roster/internal/db"
)

const certColumns = `id, person_id, course_id, status, issued_at, updated_at`

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a certification repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create persists the certification. The certification must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Certification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO certifications (`+certColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.PersonID, c.CourseID, string(c.Status), c.IssuedAt, c.UpdatedAt)
	return err
}

// GetByID returns the certification for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Certification, error) {
	var c domain.Certification
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT `+certColumns+` FROM certifications WHERE id = $1`, id).
		Scan(&c.ID, &c.PersonID, &c.CourseID, &status, &c.IssuedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Status = domain.Status(status)
	return &c, nil
}

// ListByPerson returns every certification owned by personID, oldest first.
func (r *PostgresRepository) ListByPerson(ctx context.Context, personID string) ([]*domain.Certification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+certColumns+` FROM certifications WHERE person_id = $1 ORDER BY issued_at, id`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Certification
	for rows.Next() {
		var c domain.Certification
		var status string
		if err := rows.Scan(&c.ID, &c.PersonID, &c.CourseID, &status, &c.IssuedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Status = domain.Status(status)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status and updated_at of the certification.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE certifications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), at)
	return err
}
