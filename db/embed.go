// Package db carries the embedded Postgres schema.
package db

import (
	"context"
	"database/sql"
	_ "embed"
)

//go:embed schema.sql
var schema string

// EnsureSchema applies the schema. Statements are idempotent so this is safe
// to run on every start.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, schema)
	return err
}

// SeedAdmin creates the admin account once. An existing row with the same
// email is left alone, password included.
func SeedAdmin(ctx context.Context, conn *sql.DB, email, passwordHash string) error {
	const q = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, 'admin')
ON CONFLICT (email) DO NOTHING`
	_, err := conn.ExecContext(ctx, q, email, passwordHash)
	return err
}
