package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureUsersTable makes the backend self-bootstrapping:
// - if table `users` doesn't exist -> creates it
// - if table exists but misses some columns -> adds them (non-destructive)
// - ensures `deleted_users` exists for hard-delete archiving
func EnsureUsersTable(ctx context.Context, pg *pgxpool.Pool) error {
	// extension for uuid default
	if _, err := pg.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`); err != nil {
		return err
	}

	// Create table with the latest known schema (idempotent).
	// Note: ALTER TABLE below is still needed for older existing DBs.
	_, err := pg.Exec(ctx, `
CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name VARCHAR NOT NULL,
  phone VARCHAR NOT NULL UNIQUE,
  password_hash VARCHAR NOT NULL,
  account_status VARCHAR NULL DEFAULT 'active',
  created_at TIMESTAMP NOT NULL DEFAULT now(),
  updated_at TIMESTAMP NOT NULL DEFAULT now(),
  deleted_at TIMESTAMP NULL
);
`)
	if err != nil {
		return err
	}

	// Non-destructive upgrades for older schemas.
	// (No DROP COLUMN here on purpose.)
	_, err = pg.Exec(ctx, `
ALTER TABLE users
  ADD COLUMN IF NOT EXISTS account_status VARCHAR NULL DEFAULT 'active',
  ADD COLUMN IF NOT EXISTS deleted_at TIMESTAMP NULL;
`)
	if err != nil {
		return err
	}

	if _, err = pg.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_users_phone ON users (phone);`); err != nil {
		return err
	}

	// Archive table for hard deletes (clone structure without constraints
	// so an archived phone never collides with a re-registered one).
	_, err = pg.Exec(ctx, `CREATE TABLE IF NOT EXISTS deleted_users (LIKE users INCLUDING DEFAULTS);`)
	if err != nil {
		return err
	}
	_, err = pg.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_deleted_users_phone ON deleted_users (phone);`)
	return err
}
