package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"undercover/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps lobbies in a JSONB column next to an integer version
// used for optimistic concurrency.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects to databaseURL, pings and applies migrations
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if err := Migrate(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Migrate applies all pending migrations against the pool
func Migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Get loads a lobby document
func (s *PostgresStore) Get(ctx context.Context, code string) (*domain.Lobby, error) {
	var (
		data    []byte
		version int64
	)
	err := s.pool.QueryRow(ctx,
		`SELECT data, version FROM lobbies WHERE code = $1`,
		NormalizeCode(code),
	).Scan(&data, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting lobby %s: %w", code, err)
	}

	lobby, err := decode(data)
	if err != nil {
		return nil, err
	}
	lobby.Version = version
	return lobby, nil
}

// Create inserts a new lobby row
func (s *PostgresStore) Create(ctx context.Context, lobby *domain.Lobby) error {
	data, err := encode(lobby, 1)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO lobbies (code, data, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (code) DO NOTHING
	`, NormalizeCode(lobby.Code), data)
	if err != nil {
		return fmt.Errorf("inserting lobby %s: %w", lobby.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	lobby.Version = 1
	return nil
}

// CompareAndSwap updates the row only if its version is unchanged
func (s *PostgresStore) CompareAndSwap(ctx context.Context, lobby *domain.Lobby) error {
	next := lobby.Version + 1
	data, err := encode(lobby, next)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE lobbies
		SET data = $2, version = $3, updated_at = now()
		WHERE code = $1 AND version = $4
	`, NormalizeCode(lobby.Code), data, next, lobby.Version)
	if err != nil {
		return fmt.Errorf("updating lobby %s: %w", lobby.Code, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM lobbies WHERE code = $1)`,
			NormalizeCode(lobby.Code),
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking lobby %s: %w", lobby.Code, err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}

	lobby.Version = next
	return nil
}

// List returns all lobby codes
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT code FROM lobbies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing lobbies: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing lobbies: %w", err)
	}
	return codes, nil
}

// Ping checks the pool
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
