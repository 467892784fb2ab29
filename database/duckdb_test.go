package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dqsus/columns"
	"dqsus/models"
)

// Estes testes usam o DuckDB de verdade, num arquivo temporário.

func execDuckDB(t *testing.T, path string, stmts ...string) {
	t.Helper()
	db, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func readColumns(t *testing.T, path, table string) []string {
	t.Helper()
	db, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	defer db.Close()

	cols, err := tableColumns(context.Background(), db, table)
	require.NoError(t, err)
	return cols
}

// writeParquet grava arquivos parquet com o próprio DuckDB, em memória.
func writeParquet(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	var paths []string
	var stmts []string
	for _, name := range []string{"CHIKBR22.parquet", "CHIKBR23.parquet"} {
		query, ok := files[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		stmts = append(stmts, "COPY ("+query+") TO "+quoteLiteral(path)+" (FORMAT PARQUET)")
		paths = append(paths, path)
	}
	execDuckDB(t, "", stmts...)
	return paths
}

func TestDuckDB_Pipeline(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	paths := writeParquet(t, dir, map[string]string{
		"CHIKBR22.parquet": `SELECT '2022-01-03' AS "DT_NOTIFIC", 'S' AS "FEBRE", 'F' AS "CS_SEXO",
			'Recife' AS "MUNICÍPIO", NULL::VARCHAR AS "NAUSEA"`,
		"CHIKBR23.parquet": `SELECT '2023-02-10' AS "DT_NOTIFIC", 'N' AS "FEBRE", 'M' AS "CS_SEXO",
			'N' AS "DIABETES"`,
	})

	store := New(filepath.Join(dir, "db", "db.db"), zap.NewNop())
	require.NoError(t, store.Load(ctx, paths))
	assert.ElementsMatch(t,
		[]string{"DT_NOTIFIC", "FEBRE", "CS_SEXO", "MUNICÍPIO", "NAUSEA", "DIABETES"},
		readColumns(t, store.Path(), models.RawTable))

	mapping, err := columns.Default(columns.Portuguese, zap.NewNop())
	require.NoError(t, err)

	report, err := store.RenameColumns(ctx, models.RawTable, mapping)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MUNICÍPIO": "MUNICIPIO"}, report.Normalized)
	assert.Equal(t, "febre", report.Renamed["FEBRE"])
	assert.Equal(t, "diabetes", report.Renamed["DIABETES"])

	expected := []string{"data_notificacao", "febre", "sexo", "municipio_hospital", "nausea", "diabetes"}
	assert.ElementsMatch(t, expected, readColumns(t, store.Path(), models.RawTable))

	// Segunda execução não encontra nada a renomear
	again, err := store.RenameColumns(ctx, models.RawTable, mapping)
	require.NoError(t, err)
	assert.Empty(t, again.Normalized)
	assert.Empty(t, again.Renamed)
	assert.ElementsMatch(t, expected, readColumns(t, store.Path(), models.RawTable))

	created, err := store.Transform(ctx, mapping)
	require.NoError(t, err)
	assert.Equal(t, []string{"febre", "nausea"}, created[models.ClinicalSigns])
	assert.Equal(t, []string{"diabetes"}, created[models.PatientDiseases])
	assert.NotContains(t, created, models.Exams)

	signs, err := store.Table(ctx, string(models.ClinicalSigns), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, signs.Nrow())
	assert.ElementsMatch(t, []string{"S", "N"}, signs.Col("febre").Records())
	assert.Equal(t, []bool{true, true}, signs.Col("nausea").IsNaN())

	limited, err := store.Table(ctx, string(models.NotificationsInfo), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Nrow())

	_, err = store.Table(ctx, string(models.Exams), 0)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDuckDB_FailedRenameKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.db")
	execDuckDB(t, path, `CREATE TABLE sinan ("CS_SEXO" VARCHAR, "FEBRE" VARCHAR, "EVOLUÇÃO" VARCHAR)`)

	store := New(path, zap.NewNop())
	_, err := store.RenameColumns(context.Background(), "sinan",
		columns.Mapping{"CS_SEXO": "sex", "FEBRE": "sex"})

	require.Error(t, err)
	assert.Equal(t, []string{"CS_SEXO", "FEBRE", "EVOLUÇÃO"}, readColumns(t, path, "sinan"))
}

func TestDuckDB_TableNameIsCaseSensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.db")
	execDuckDB(t, path, `CREATE TABLE sinan ("FEBRE" VARCHAR)`)

	store := New(path, zap.NewNop())
	_, err := store.RenameColumns(context.Background(), "SINAN", columns.Mapping{"FEBRE": "febre"})

	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Equal(t, []string{"FEBRE"}, readColumns(t, path, "sinan"))
}
