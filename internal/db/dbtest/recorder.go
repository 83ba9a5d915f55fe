// Package dbtest provides an in-memory db.DBTX for repository tests.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoQuery is returned by QueryContext; Recorder only serves writes.
var ErrNoQuery = errors.New("dbtest: queries are not supported")

// Statement is one recorded ExecContext call.
type Statement struct {
	Query string
	Args  []any
}

// Recorder implements db.DBTX. ExecContext records the statement and returns ExecErr.
type Recorder struct {
	ExecErr    error
	Statements []Statement
}

func (r *Recorder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.Statements = append(r.Statements, Statement{Query: query, Args: args})
	if r.ExecErr != nil {
		return nil, r.ExecErr
	}
	return driver.RowsAffected(1), nil
}

func (r *Recorder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, ErrNoQuery
}

// QueryRowContext is not supported and returns nil.
func (r *Recorder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

// UniqueViolation returns the error Postgres reports for a duplicate key on constraint.
func UniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// AssertPlaceholders fails t unless the highest $N placeholder in st.Query equals the
// number of bound arguments.
func AssertPlaceholders(t testing.TB, st Statement) {
	t.Helper()
	highest := 0
	for _, m := range placeholder.FindAllStringSubmatch(st.Query, -1) {
		if n, _ := strconv.Atoi(m[1]); n > highest {
			highest = n
		}
	}
	if highest != len(st.Args) {
		t.Errorf("query binds $1..$%d but got %d args:\n%s", highest, len(st.Args), st.Query)
	}
}
