package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open a PostgreSQL pool.
type Config struct {
	DSN      string
	MaxConns int32
	Timeout  time.Duration
}

// Connect opens a pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// schema is applied on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id              BIGSERIAL PRIMARY KEY,
		username        VARCHAR(50)  NOT NULL UNIQUE,
		email           VARCHAR(254) NOT NULL UNIQUE,
		password_digest TEXT         NOT NULL,
		role            VARCHAR(20)  NOT NULL,
		created_at      TIMESTAMPTZ  NOT NULL,
		updated_at      TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id                   BIGSERIAL PRIMARY KEY,
		full_name            VARCHAR(100) NOT NULL,
		email                VARCHAR(254) NOT NULL,
		phone                VARCHAR(20)  NOT NULL DEFAULT '',
		company_name         VARCHAR(100) NOT NULL DEFAULT '',
		creation_date        TIMESTAMPTZ  NOT NULL,
		last_contact_date    TIMESTAMPTZ  NOT NULL,
		owning_commercial_id BIGINT       NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS clients_owner_idx ON clients (owning_commercial_id)`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id               BIGSERIAL PRIMARY KEY,
		client_id        BIGINT         NOT NULL REFERENCES clients (id),
		total_amount     NUMERIC(12, 2) NOT NULL,
		remaining_amount NUMERIC(12, 2) NOT NULL,
		status           VARCHAR(10)    NOT NULL,
		creation_date    TIMESTAMPTZ    NOT NULL,
		CHECK (remaining_amount <= total_amount)
	)`,
	`CREATE INDEX IF NOT EXISTS contracts_client_idx ON contracts (client_id)`,
	`CREATE TABLE IF NOT EXISTS events (
		id                 BIGSERIAL PRIMARY KEY,
		contract_id        BIGINT        NOT NULL REFERENCES contracts (id),
		start_at           TIMESTAMPTZ   NOT NULL,
		end_at             TIMESTAMPTZ   NOT NULL,
		location           VARCHAR(255)  NOT NULL DEFAULT '',
		attendees          INTEGER       NOT NULL DEFAULT 0,
		notes              VARCHAR(2000) NOT NULL DEFAULT '',
		support_contact_id BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS events_support_idx ON events (support_contact_id)`,
}

// Migrate creates the tables and indexes the repositories rely on.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translate maps driver errors onto the domain sentinels the services
// understand.
func translate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrConflict
		case foreignKeyViolation:
			return domain.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affected turns an UPDATE or DELETE touching no row into ErrNotFound.
func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
