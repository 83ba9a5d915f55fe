package repository

import (
	"context"
	"database/sql"
	"errors"

	"ics-roster/internal/db"
	"ics-roster/internal/person/domain"
	"ics-roster/internal/platform/validation"
)

const personColumns = `id, first_name, last_name, city, state, zip, division1, division2, badge_id, created_at, updated_at`

// badgeConstraint is the unique index on people.badge_id.
const badgeConstraint = "people_badge_id_key"

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a person repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// GetByID returns the person for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	return scanOne(r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1`, id))
}

// GetByBadgeID returns the person with the given badge, or nil if not found.
func (r *PostgresRepository) GetByBadgeID(ctx context.Context, badgeID string) (*domain.Person, error) {
	return scanOne(r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE badge_id = $1`, badgeID))
}

// List returns all people ordered by last name, first name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+personColumns+` FROM people ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create persists the person. The person must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Person) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO people (`+personColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.FirstName, p.LastName, p.City, p.State, p.Zip,
		db.NullString(p.Division1), db.NullString(p.Division2),
		p.BadgeID, p.CreatedAt, p.UpdatedAt)
	return mapWriteError(err)
}

// Update overwrites the mutable fields of the existing person. CreatedAt is preserved.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Person) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE people SET first_name = $2, last_name = $3, city = $4, state = $5, zip = $6,
		 division1 = $7, division2 = $8, badge_id = $9, updated_at = $10 WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.City, p.State, p.Zip,
		db.NullString(p.Division1), db.NullString(p.Division2),
		p.BadgeID, p.UpdatedAt)
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok && constraint == badgeConstraint {
		return validation.Single(validation.UniquenessError("badge_id"))
	}
	return err
}

func scanOne(row *sql.Row) (*domain.Person, error) {
	p, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanPerson(s rowScanner) (*domain.Person, error) {
	var p domain.Person
	var d1, d2 sql.NullString
	if err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.City, &p.State, &p.Zip,
		&d1, &d2, &p.BadgeID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Division1 = db.StringOrEmpty(d1)
	p.Division2 = db.StringOrEmpty(d2)
	return &p, nil
}
