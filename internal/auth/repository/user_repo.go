package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luxbiz/biz-optimizer/internal/auth/domain"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type UserRepository struct {
	db querier
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, external_id, coalesce(email, ''), coalesce(name, ''), role, tier, created_at, updated_at, last_signed_in`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.ExternalID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.Tier,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastSignedIn,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureUser reads or creates the user for an identity. Email, name and the
// sign-in time are refreshed on every call; role and tier are kept.
func (r *UserRepository) EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if id.UID == "" {
		return nil, fmt.Errorf("external id required")
	}

	q := `
insert into users (external_id, email, name, role, tier, last_signed_in, updated_at)
values ($1, nullif($2,''), nullif($3,''), $4, $5, now(), now())
on conflict (external_id) do update
set
  email = coalesce(excluded.email, users.email),
  name = coalesce(excluded.name, users.name),
  last_signed_in = now(),
  updated_at = now()
returning ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, id.UID, id.Email, id.Name, domain.RoleUser, domain.TierFree))
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	q := `select ` + userColumns + ` from users where id = $1`
	return scanUser(r.db.QueryRow(ctx, q, userID))
}

// List returns users newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	q := `select ` + userColumns + ` from users order by id desc limit $1 offset $2`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `select count(*) from users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) SetRole(ctx context.Context, userID int64, role string) (*domain.User, error) {
	q := `update users set role = $2, updated_at = now() where id = $1 returning ` + userColumns
	return scanUser(r.db.QueryRow(ctx, q, userID, role))
}

func (r *UserRepository) SetTier(ctx context.Context, userID int64, tier string) (*domain.User, error) {
	q := `update users set tier = $2, updated_at = now() where id = $1 returning ` + userColumns
	return scanUser(r.db.QueryRow(ctx, q, userID, tier))
}
