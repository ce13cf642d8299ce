package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
)

// Pool sizing for a single-user CLI.
const (
	postgresMaxConns        = 4
	postgresMaxConnLifetime = time.Hour
	postgresMaxConnIdleTime = 30 * time.Minute
	postgresConnectTimeout  = 10 * time.Second
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps the state document in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects with dsn, pings the server and ensures the
// documents table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	poolConfig.MaxConns = postgresMaxConns
	poolConfig.MaxConnLifetime = postgresMaxConnLifetime
	poolConfig.MaxConnIdleTime = postgresMaxConnIdleTime

	connectCtx, cancel := context.WithTimeout(ctx, postgresConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err = pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err = pool.Exec(connectCtx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("component", "storage").
		Str("operation", "NewPostgresStore").
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Msg("postgres store ready")

	return &PostgresStore{pool: pool}, nil
}

// Load reads the document row. A missing row yields (nil, nil).
func (s *PostgresStore) Load(ctx context.Context) (*engine.State, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE key = $1`, DocumentKey).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // nothing stored yet
		}
		return nil, fmt.Errorf("querying state document: %w", err)
	}
	return Decode(body)
}

// Save upserts the document row.
func (s *PostgresStore) Save(ctx context.Context, st engine.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (key, body, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		DocumentKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing state document: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
