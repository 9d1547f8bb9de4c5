package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               UUID PRIMARY KEY,
	username         TEXT NOT NULL,
	mail             TEXT NOT NULL,
	password_hash    TEXT NOT NULL,
	is_email_visible BOOLEAN NOT NULL DEFAULT FALSE,
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_mail_key UNIQUE (mail)
);

CREATE TABLE IF NOT EXISTS items (
	id             UUID PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	add_info       TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL,
	birthdate      TIMESTAMPTZ NOT NULL,
	expirydate     TIMESTAMPTZ NOT NULL,
	owner_id       UUID NOT NULL,
	votes          JSONB NOT NULL DEFAULT '[]',
	vote_count     INT NOT NULL DEFAULT 0,
	members        JSONB NOT NULL DEFAULT '[]',
	member_limit   INT NOT NULL DEFAULT 0,
	allow_overload BOOLEAN NOT NULL DEFAULT FALSE,
	version        BIGINT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS items_owner_idx ON items (owner_id);
CREATE INDEX IF NOT EXISTS items_vote_count_idx ON items (vote_count DESC);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
