// Package database guarda os dados do SINAN num arquivo DuckDB e aplica as
// renomeações e recortes de tabela sobre ele.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"dqsus/models"
)

var (
	ErrDatabaseNotFound = errors.New("database not found")
	ErrTableNotFound    = errors.New("table not found")
)

// Opener abre uma conexão com o arquivo do banco.
type Opener func(path string) (*sql.DB, error)

func openDuckDB(path string) (*sql.DB, error) {
	return sql.Open("duckdb", path)
}

// Store não mantém conexão aberta: cada operação abre, usa e fecha a sua.
type Store struct {
	path   string
	open   Opener
	logger *zap.Logger
}

type Option func(*Store)

func WithOpener(open Opener) Option {
	return func(s *Store) { s.open = open }
}

func New(path string, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{path: path, open: openDuckDB, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) connect(ctx context.Context) (*sql.DB, error) {
	db, err := s.open(s.path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco de dados %s: %w", s.path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar com banco de dados %s: %w", s.path, err)
	}
	return db, nil
}

// requireFile falha antes de qualquer conexão quando o arquivo não existe.
func (s *Store) requireFile() error {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Error("banco de dados não encontrado", zap.String("path", s.path))
			return fmt.Errorf("%w em %s", ErrDatabaseNotFound, s.path)
		}
		return fmt.Errorf("erro ao verificar banco de dados %s: %w", s.path, err)
	}
	return nil
}

// Load recria a tabela bruta "sinan" a partir dos arquivos parquet.
func (s *Store) Load(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("nenhum arquivo parquet para carregar")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("erro ao criar diretório do banco: %w", err)
	}

	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	literals := make([]string, len(paths))
	for i, p := range paths {
		literals[i] = quoteLiteral(p)
	}
	query := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_parquet([%s], union_by_name = true)",
		pq.QuoteIdentifier(models.RawTable), strings.Join(literals, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("erro ao carregar parquet no DuckDB: %w", err)
	}

	var count int64
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM "+pq.QuoteIdentifier(models.RawTable)).Scan(&count); err != nil {
		return fmt.Errorf("erro ao contar registros: %w", err)
	}
	s.logger.Info("arquivos carregados no DuckDB",
		zap.Int("files", len(paths)), zap.Int64("rows", count), zap.String("path", s.path))
	return nil
}

// quoteLiteral escapa aspas simples. pq.QuoteLiteral não serve aqui porque
// gera E'...' quando há barra invertida, sintaxe que o DuckDB não aceita.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// columnsQuery compara table_name exatamente: o nome precisa vir com a mesma
// caixa com que a tabela foi criada ("sinan", não "SINAN").
const columnsQuery = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func tableColumns(ctx context.Context, q querier, table string) ([]string, error) {
	rows, err := q.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler colunas de %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("erro ao fazer scan das colunas: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração das colunas: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return cols, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
