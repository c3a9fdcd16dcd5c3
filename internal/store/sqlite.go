package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ssot-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id            TEXT PRIMARY KEY,
	generated_at  DATETIME NOT NULL,
	row_count     INTEGER NOT NULL,
	source_counts TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS canonical_records (
	batch_id  TEXT NOT NULL REFERENCES batches(id),
	position  INTEGER NOT NULL,
	slug      TEXT NOT NULL,
	record    TEXT NOT NULL,
	PRIMARY KEY (batch_id, position)
);

CREATE TABLE IF NOT EXISTS conflicts (
	batch_id      TEXT NOT NULL REFERENCES batches(id),
	position      INTEGER NOT NULL,
	slug          TEXT NOT NULL,
	field         TEXT NOT NULL,
	chosen_source TEXT NOT NULL,
	chosen_value  TEXT NOT NULL,
	alternatives  TEXT NOT NULL,
	PRIMARY KEY (batch_id, position)
);

CREATE INDEX IF NOT EXISTS idx_canonical_slug ON canonical_records(slug);
CREATE INDEX IF NOT EXISTS idx_conflicts_slug ON conflicts(slug);
CREATE INDEX IF NOT EXISTS idx_conflicts_field ON conflicts(field);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveBatch(ctx context.Context, result *model.BatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	counts, err := json.Marshal(result.SourceCounts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal source counts")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, generated_at, row_count, source_counts) VALUES (?, ?, ?, ?)`,
		result.BatchID, result.GeneratedAt, len(result.Canonical), string(counts),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert batch")
	}

	for i := range result.Canonical {
		rec := &result.Canonical[i]
		data, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal canonical record")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO canonical_records (batch_id, position, slug, record) VALUES (?, ?, ?, ?)`,
			result.BatchID, i, rec.Slug, string(data),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert canonical %s", rec.Slug)
		}
	}

	for i := range result.Conflicts {
		c := &result.Conflicts[i]
		alts, err := json.Marshal(c.Alternatives)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal alternatives")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conflicts (batch_id, position, slug, field, chosen_source, chosen_value, alternatives) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.BatchID, i, c.Slug, c.Field, c.ChosenSource, c.ChosenValue, string(alts),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert conflict %s/%s", c.Slug, c.Field)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit batch")
}

func (s *SQLiteStore) LatestBatchID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM batches ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", eris.Wrap(err, "sqlite: latest batch")
	}
	return id, nil
}

func (s *SQLiteStore) ListCanonical(ctx context.Context, batchID string) ([]model.CanonicalRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM canonical_records WHERE batch_id = ? ORDER BY position`,
		batchID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list canonical")
	}
	defer rows.Close()

	var out []model.CanonicalRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan canonical")
		}
		var rec model.CanonicalRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal canonical")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate canonical")
}

func (s *SQLiteStore) ListConflicts(ctx context.Context, filter ConflictFilter) ([]model.ConflictRecord, error) {
	query := `SELECT slug, field, chosen_source, chosen_value, alternatives FROM conflicts WHERE 1=1`
	var args []any

	if filter.BatchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, filter.BatchID)
	}
	if filter.Slug != "" {
		query += ` AND slug = ?`
		args = append(args, filter.Slug)
	}
	if filter.Field != "" {
		query += ` AND field = ?`
		args = append(args, filter.Field)
	}
	query += ` ORDER BY batch_id, position`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list conflicts")
	}
	defer rows.Close()

	var out []model.ConflictRecord
	for rows.Next() {
		var c model.ConflictRecord
		var alts string
		if err := rows.Scan(&c.Slug, &c.Field, &c.ChosenSource, &c.ChosenValue, &alts); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan conflict")
		}
		if err := json.Unmarshal([]byte(alts), &c.Alternatives); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal alternatives")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate conflicts")
}
