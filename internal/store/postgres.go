package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ssot-cli/internal/db"
	"github.com/sells-group/ssot-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id            TEXT PRIMARY KEY,
	generated_at  TIMESTAMPTZ NOT NULL,
	row_count     INTEGER NOT NULL,
	source_counts JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS canonical_records (
	batch_id  TEXT NOT NULL REFERENCES batches(id),
	position  INTEGER NOT NULL,
	slug      TEXT NOT NULL,
	record    JSONB NOT NULL,
	PRIMARY KEY (batch_id, position)
);

CREATE TABLE IF NOT EXISTS conflicts (
	batch_id      TEXT NOT NULL REFERENCES batches(id),
	position      INTEGER NOT NULL,
	slug          TEXT NOT NULL,
	field         TEXT NOT NULL,
	chosen_source TEXT NOT NULL,
	chosen_value  TEXT NOT NULL,
	alternatives  JSONB NOT NULL,
	PRIMARY KEY (batch_id, position)
);

CREATE INDEX IF NOT EXISTS idx_canonical_slug ON canonical_records(slug);
CREATE INDEX IF NOT EXISTS idx_conflicts_slug ON conflicts(slug);
CREATE INDEX IF NOT EXISTS idx_conflicts_field ON conflicts(field);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveBatch(ctx context.Context, result *model.BatchResult) error {
	counts, err := json.Marshal(result.SourceCounts)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal source counts")
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO batches (id, generated_at, row_count, source_counts) VALUES ($1, $2, $3, $4)`,
		result.BatchID, result.GeneratedAt, len(result.Canonical), counts,
	); err != nil {
		return eris.Wrap(err, "postgres: insert batch")
	}

	canonicalRows := make([][]any, 0, len(result.Canonical))
	for i := range result.Canonical {
		rec := &result.Canonical[i]
		data, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal canonical record")
		}
		canonicalRows = append(canonicalRows, []any{result.BatchID, i, rec.Slug, data})
	}
	if _, err := db.CopyFrom(ctx, s.pool, "canonical_records",
		[]string{"batch_id", "position", "slug", "record"}, canonicalRows); err != nil {
		return err
	}

	conflictRows := make([][]any, 0, len(result.Conflicts))
	for i := range result.Conflicts {
		c := &result.Conflicts[i]
		alts, err := json.Marshal(c.Alternatives)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal alternatives")
		}
		conflictRows = append(conflictRows, []any{result.BatchID, i, c.Slug, c.Field, c.ChosenSource, c.ChosenValue, alts})
	}
	if _, err := db.CopyFrom(ctx, s.pool, "conflicts",
		[]string{"batch_id", "position", "slug", "field", "chosen_source", "chosen_value", "alternatives"}, conflictRows); err != nil {
		return err
	}

	return nil
}

func (s *PostgresStore) LatestBatchID(ctx context.Context) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM batches ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", eris.Wrap(err, "postgres: latest batch")
	}
	return id, nil
}

func (s *PostgresStore) ListCanonical(ctx context.Context, batchID string) ([]model.CanonicalRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM canonical_records WHERE batch_id = $1 ORDER BY position`,
		batchID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list canonical")
	}
	defer rows.Close()

	var out []model.CanonicalRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan canonical")
		}
		var rec model.CanonicalRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal canonical")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate canonical")
}

func (s *PostgresStore) ListConflicts(ctx context.Context, filter ConflictFilter) ([]model.ConflictRecord, error) {
	query := `SELECT slug, field, chosen_source, chosen_value, alternatives FROM conflicts WHERE 1=1`
	var args []any

	if filter.BatchID != "" {
		args = append(args, filter.BatchID)
		query += ` AND batch_id = $` + strconv.Itoa(len(args))
	}
	if filter.Slug != "" {
		args = append(args, filter.Slug)
		query += ` AND slug = $` + strconv.Itoa(len(args))
	}
	if filter.Field != "" {
		args = append(args, filter.Field)
		query += ` AND field = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY batch_id, position`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list conflicts")
	}
	defer rows.Close()

	var out []model.ConflictRecord
	for rows.Next() {
		var c model.ConflictRecord
		var alts []byte
		if err := rows.Scan(&c.Slug, &c.Field, &c.ChosenSource, &c.ChosenValue, &alts); err != nil {
			return nil, eris.Wrap(err, "postgres: scan conflict")
		}
		if err := json.Unmarshal(alts, &c.Alternatives); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal alternatives")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate conflicts")
}
