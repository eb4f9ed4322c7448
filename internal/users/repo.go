package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound               = errors.New("user not found")
	ErrPhoneAlreadyRegistered = errors.New("phone already registered")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const userColumns = `
  id, name, phone, password_hash,
  account_status AS status,
  created_at, updated_at, deleted_at`

func (r *Repo) FindByPhone(ctx context.Context, phone string) (*User, error) {
	const q = `
SELECT` + userColumns + `
FROM users
WHERE phone = $1 AND deleted_at IS NULL
LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, phone))
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const q = `
SELECT` + userColumns + `
FROM users
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, id))
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Phone, &u.PasswordHash,
		&u.Status,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

type CreateParams struct {
	Name         string
	Phone        string
	PasswordHash string
}

func (r *Repo) Create(ctx context.Context, p CreateParams) (uuid.UUID, error) {
	const q = `
INSERT INTO users (
  name, phone, password_hash,
  account_status,
  created_at, updated_at, deleted_at
) VALUES (
  $1, $2, $3,
  'active',
  now(), now(), NULL
) RETURNING id`

	var id uuid.UUID
	err := r.pg.QueryRow(ctx, q, p.Name, p.Phone, p.PasswordHash).Scan(&id)
	if err != nil {
		if e, ok := err.(*pgconn.PgError); ok && e.SQLState() == "23505" {
			return uuid.Nil, ErrPhoneAlreadyRegistered
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, passwordHash)
	return err
}

func (r *Repo) UpdatePhone(ctx context.Context, id uuid.UUID, newPhone string) error {
	const q = `UPDATE users SET phone = $2, updated_at = now() WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, newPhone)
	if err != nil {
		if e, ok := err.(*pgconn.PgError); ok && e.SQLState() == "23505" {
			return ErrPhoneAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *Repo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	const q = `UPDATE users SET name = $2, updated_at = now() WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, name)
	return err
}

var ErrDeleteNotFound = errors.New("user to delete not found")

// DeleteAndArchive copies the row into deleted_users, then removes it.
func (r *Repo) DeleteAndArchive(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE users SET deleted_at = now(), updated_at = now() WHERE id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `INSERT INTO deleted_users SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDeleteNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) Touch(ctx context.Context, id uuid.UUID, t time.Time) error {
	const q = `UPDATE users SET updated_at = $2 WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, t)
	return err
}
