package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupMockStore cria um Store cujo Opener devolve a conexão do sqlmock.
func setupMockStore(t *testing.T, logger *zap.Logger) (sqlmock.Sqlmock, *Store) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "db", "db.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store := New(path, logger, WithOpener(func(string) (*sql.DB, error) { return db, nil }))
	return mock, store
}

func TestLoad_CreatesRawTable(t *testing.T) {
	mock, store := setupMockStore(t, zap.NewNop())

	mock.ExpectExec(`CREATE OR REPLACE TABLE "sinan" AS SELECT * FROM read_parquet(['/cache/CHIKBR22.parquet', '/cache/it''s/CHIKBR23.parquet'], union_by_name = true)`).
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectQuery(`SELECT count(*) FROM "sinan"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(10)))
	mock.ExpectClose()

	err := store.Load(context.Background(), []string{"/cache/CHIKBR22.parquet", "/cache/it's/CHIKBR23.parquet"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_NoFiles(t *testing.T) {
	_, store := setupMockStore(t, zap.NewNop())

	err := store.Load(context.Background(), nil)
	assert.Error(t, err)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'C:\dados\CHIKBR22.parquet'`, quoteLiteral(`C:\dados\CHIKBR22.parquet`))
	assert.Equal(t, `'d''agua'`, quoteLiteral("d'agua"))
}
