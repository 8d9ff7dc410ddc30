package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`create table if not exists users (
		id bigserial primary key,
		external_id text not null unique,
		email text,
		name text,
		role text not null default 'user',
		tier text not null default 'free',
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now(),
		last_signed_in timestamptz
	)`,
	`create table if not exists jobs (
		id uuid primary key,
		type text not null,
		user_id bigint not null default 0,
		payload jsonb not null,
		status text not null default 'queued',
		attempts int not null default 0,
		max_attempts int not null default 3,
		last_error text,
		run_after timestamptz not null default now(),
		locked_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	)`,
	`create index if not exists jobs_runnable_idx on jobs (status, run_after) where status = 'queued'`,
	`create index if not exists jobs_running_idx on jobs (locked_at) where status = 'running'`,
}

// EnsureSchema creates the relational tables if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
