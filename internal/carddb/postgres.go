package carddb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

// upsertBatchSize bounds the statements sent per round trip.
const upsertBatchSize = 1000

// PostgresRepository stores definitions as JSONB documents, one row per
// card name.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *zap.Logger
}

// Connect opens a pool for url and checks the connection.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to card database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping card database: %w", err)
	}
	return pool, nil
}

// NewPostgresRepository wraps an open pool. table is quoted as an
// identifier.
func NewPostgresRepository(pool *pgxpool.Pool, table string, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{
		pool:   pool,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logger,
	}
}

// EnsureSchema creates the table if it doesn't exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name       TEXT PRIMARY KEY,
			definition JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, r.table))
	if err != nil {
		return fmt.Errorf("create %s: %w", r.table, err)
	}
	return nil
}

// Load reads and validates every stored definition.
func (r *PostgresRepository) Load(ctx context.Context) (*Library, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT name, definition FROM %s ORDER BY name`, r.table))
	if err != nil {
		return nil, fmt.Errorf("query card definitions: %w", err)
	}
	defer rows.Close()

	lib := NewLibrary()
	for rows.Next() {
		var name string
		var def card.Definition
		if err := rows.Scan(&name, &def); err != nil {
			return nil, fmt.Errorf("scan card definition: %w", err)
		}
		if def.Name != name {
			return nil, fmt.Errorf("row %q holds a definition named %q", name, def.Name)
		}
		if err := lib.Add(&def); err != nil {
			return nil, fmt.Errorf("row %q: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read card definitions: %w", err)
	}
	r.logger.Info("card definitions loaded from database", zap.Int("total", lib.Len()))
	return lib, nil
}

// Upsert writes definitions in batches inside one transaction, replacing
// rows with the same name.
func (r *PostgresRepository) Upsert(ctx context.Context, defs []*card.Definition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO %s (name, definition, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET definition = EXCLUDED.definition, updated_at = EXCLUDED.updated_at`, r.table)

	for start := 0; start < len(defs); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(defs))
		batch := &pgx.Batch{}
		for _, def := range defs[start:end] {
			if err := def.Validate(); err != nil {
				return err
			}
			batch.Queue(query, def.Name, def)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert card definitions %d-%d: %w", start, end, err)
		}
		r.logger.Debug("batch written", zap.Int("from", start), zap.Int("to", end))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit card definitions: %w", err)
	}
	r.logger.Info("card definitions stored", zap.Int("count", len(defs)))
	return nil
}
