package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PGXPool is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type PGXPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Store = (*PostgresStore)(nil)

// PostgresStore persists history collections as JSONB rows in the history_kv
// table, one row per logical key.
type PostgresStore struct {
	pgpool PGXPool
	logger *slog.Logger
}

func NewPostgresStore(pgpool PGXPool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pgpool: pgpool,
		logger: logger,
	}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := otel.Tracer("HistoryStore").Start(ctx, "Get", trace.WithAttributes(
		attribute.String("history.key", key),
	))
	defer span.End()

	var value []byte
	err := s.pgpool.QueryRow(ctx, `SELECT value FROM history_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read history key %q: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := otel.Tracer("HistoryStore").Start(ctx, "Set", trace.WithAttributes(
		attribute.String("history.key", key),
		attribute.Int("history.value_bytes", len(value)),
	))
	defer span.End()

	query := `
        INSERT INTO history_kv (key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := s.pgpool.Exec(ctx, query, key, value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to write history key %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer("HistoryStore").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("history.key", key),
	))
	defer span.End()

	_, err := s.pgpool.Exec(ctx, `DELETE FROM history_kv WHERE key = $1`, key)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete history key %q: %w", key, err)
	}
	return nil
}
