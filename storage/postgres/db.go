package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to the database and verifies the connection.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases all pool connections.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		host_id    TEXT NOT NULL,
		status     TEXT NOT NULL,
		max_seats  INT  NOT NULL,
		palette    JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS room_players (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id),
		user_id    TEXT NOT NULL,
		seat_index INT  NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (room_id, seat_index)
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id),
		status     TEXT NOT NULL,
		winner_id  TEXT NOT NULL DEFAULT '',
		sequence   JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rounds (
		id              TEXT PRIMARY KEY,
		game_id         TEXT NOT NULL REFERENCES games(id),
		status          TEXT NOT NULL,
		deck            JSONB NOT NULL,
		turn_seat_index INT  NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS round_players (
		id         TEXT PRIMARY KEY,
		round_id   TEXT NOT NULL REFERENCES rounds(id),
		user_id    TEXT NOT NULL,
		seat_index INT  NOT NULL,
		hand       JSONB NOT NULL,
		state      TEXT NOT NULL,
		points     INT  NOT NULL,
		winner     BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (round_id, seat_index)
	)`,
	`CREATE TABLE IF NOT EXISTS sequence_turns (
		id          TEXT PRIMARY KEY,
		game_id     TEXT NOT NULL REFERENCES games(id),
		player_id   TEXT NOT NULL,
		turn_number INT  NOT NULL,
		input       JSONB NOT NULL,
		correct     BOOLEAN NOT NULL,
		finished    BOOLEAN NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		UNIQUE (game_id, turn_number)
	)`,
}
