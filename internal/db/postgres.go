// Package db opens the Postgres connection and classifies driver errors for repositories.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// DBTX is the subset of *sql.DB and *sql.Tx used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens a Postgres connection using the given DSN and verifies it with a ping.
// Caller must call Close when done.
func Open(dsn string) (*sql.DB, error) {
	db, err := OpenLazy(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenLazy opens a connection pool without contacting the server. The DSN is parsed, so a
// malformed DSN still fails here; an unreachable server surfaces on first use.
func OpenLazy(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// Beginner is implemented by *sql.DB.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn in a transaction on conn. The transaction commits when fn returns nil and
// rolls back otherwise.
func WithTx(ctx context.Context, conn Beginner, fn func(tx DBTX) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// UniqueViolation reports whether err is a unique-constraint violation and returns the
// violated constraint name (e.g. "people_badge_id_key").
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// NullString maps a blank string to SQL NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// StringOrEmpty returns the string value or "" for NULL.
func StringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
