package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresSaveBatch(t *testing.T) {
	s, mock := newMockPostgres(t)
	batch := testBatch("batch-1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectExec("INSERT INTO batches").
		WithArgs("batch-1", batch.GeneratedAt, 2, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"canonical_records"},
		[]string{"batch_id", "position", "slug", "record"}).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"conflicts"},
		[]string{"batch_id", "position", "slug", "field", "chosen_source", "chosen_value", "alternatives"}).WillReturnResult(2)

	require.NoError(t, s.SaveBatch(context.Background(), batch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveBatchInsertError(t *testing.T) {
	s, mock := newMockPostgres(t)
	batch := testBatch("batch-1", time.Now().UTC())

	mock.ExpectExec("INSERT INTO batches").
		WithArgs("batch-1", batch.GeneratedAt, 2, pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	err := s.SaveBatch(context.Background(), batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert batch")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLatestBatchID(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT id FROM batches").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("batch-7"))

	id, err := s.LatestBatchID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "batch-7", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLatestBatchIDEmpty(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT id FROM batches").WillReturnError(pgx.ErrNoRows)

	_, err := s.LatestBatchID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListCanonical(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT record FROM canonical_records").
		WithArgs("batch-1").
		WillReturnRows(pgxmock.NewRows([]string{"record"}).
			AddRow([]byte(`{"organization_name":"Sky High","slug":"sky-high","lead_score":0.8}`)).
			AddRow([]byte(`{"organization_name":"Charter Wings","slug":"charter-wings"}`)))

	records, err := s.ListCanonical(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "sky-high", records[0].Slug)
	assert.InDelta(t, 0.8, records[0].LeadScore, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListConflictsFilterPlaceholders(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`AND batch_id = \$1 AND slug = \$2 ORDER BY batch_id, position LIMIT \$3`).
		WithArgs("batch-1", "sky-high", 5).
		WillReturnRows(pgxmock.NewRows([]string{"slug", "field", "chosen_source", "chosen_value", "alternatives"}).
			AddRow("sky-high", "province", "SACAA Cleaned", "Gauteng",
				[]byte(`[{"source":"Contact Database","value":"Western Cape"}]`)))

	conflicts, err := s.ListConflicts(context.Background(), ConflictFilter{
		BatchID: "batch-1",
		Slug:    "sky-high",
		Limit:   5,
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "province", conflicts[0].Field)
	require.Len(t, conflicts[0].Alternatives, 1)
	assert.Equal(t, "Western Cape", conflicts[0].Alternatives[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS batches").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
