package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// initSchemaSQL creates the reading tables on first boot. Every record row
// belongs to exactly one user; the foreign keys enforce it.
const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    age INTEGER NOT NULL,
    height DOUBLE PRECISION NOT NULL,
    code TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS weight_records (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    weight DOUBLE PRECISION NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS blood_pressure_records (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    systolic INTEGER NOT NULL,
    diastolic INTEGER NOT NULL,
    pulse INTEGER NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_weight_records_user_recorded
    ON weight_records (user_id, recorded_at);

CREATE INDEX IF NOT EXISTS idx_bp_records_user_recorded
    ON blood_pressure_records (user_id, recorded_at);
`

// EnsureSchema applies the bootstrap DDL. Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, initSchemaSQL)
	return err
}
