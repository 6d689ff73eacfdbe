package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"upscale/tap/internal/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSink upserts every record as JSONB keyed by stream and key properties
type PostgresSink struct {
	db           execer
	pool         *pgxpool.Pool
	table        string
	runID        uuid.UUID
	keys         map[string][]string
	tableCreated bool
}

func NewPostgresSink(ctx context.Context, cfg config.DatabaseConfig, runID uuid.UUID) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	log.Info("✅ Connected to Postgres successfully")

	s := newPostgresSink(pool, cfg.Table, runID)
	s.pool = pool
	return s, nil
}

func newPostgresSink(db execer, table string, runID uuid.UUID) *PostgresSink {
	return &PostgresSink{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
		runID: runID,
		keys:  make(map[string][]string),
	}
}

func (s *PostgresSink) WriteSchema(ctx context.Context, stream string, schema json.RawMessage, keyProperties []string) error {
	if !s.tableCreated {
		query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			stream TEXT NOT NULL,
			record_key TEXT NOT NULL,
			run_id UUID NOT NULL,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (stream, record_key)
		)`, s.table)
		if _, err := s.db.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", s.table, err)
		}
		s.tableCreated = true
	}

	s.keys[stream] = keyProperties
	return nil
}

func (s *PostgresSink) WriteRecord(ctx context.Context, stream string, record any) error {
	keyProperties, ok := s.keys[stream]
	if !ok {
		return fmt.Errorf("no schema written for stream %s", stream)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", stream, err)
	}

	key, err := recordKey(data, keyProperties)
	if err != nil {
		return fmt.Errorf("failed to build %s record key: %w", stream, err)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (stream, record_key, run_id, data)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (stream, record_key)
	DO UPDATE SET run_id = $3, data = $4, updated_at = now()`, s.table)
	if _, err := s.db.Exec(ctx, query, stream, key, s.runID.String(), data); err != nil {
		return fmt.Errorf("failed to save %s record: %w", stream, err)
	}

	return nil
}

func (s *PostgresSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func recordKey(data []byte, keyProperties []string) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(keyProperties))
	for _, key := range keyProperties {
		value, ok := fields[key]
		if !ok || value == nil {
			return "", fmt.Errorf("key property %s is missing", key)
		}
		parts = append(parts, fmt.Sprint(value))
	}

	return strings.Join(parts, "|"), nil
}
