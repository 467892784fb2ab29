package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"dqsus/columns"
	"dqsus/models"
)

// Transform recria as tabelas de resultado a partir da tabela "sinan" já
// renomeada. Cada campo é traduzido pelo mesmo mapeamento usado na
// renomeação; campos ausentes nos arquivos carregados são ignorados.
// Devolve as colunas de cada tabela criada.
func (s *Store) Transform(ctx context.Context, mapping columns.Mapping) (created map[models.Table][]string, err error) {
	if err := s.requireFile(); err != nil {
		return nil, err
	}

	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Debug("rollback sem efeito", zap.Error(rbErr))
			}
		}
	}()

	existing, err := tableColumns(ctx, tx, models.RawTable)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing))
	for _, col := range existing {
		present[col] = true
	}

	created = make(map[models.Table][]string)
	for _, table := range models.Tables {
		cols := SelectColumns(models.Fields[table], mapping, present)
		if len(cols) == 0 {
			if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(string(table))); err != nil {
				return nil, fmt.Errorf("erro ao remover tabela %s: %w", table, err)
			}
			s.logger.Warn("nenhuma coluna disponível para a tabela", zap.String("table", string(table)))
			continue
		}

		if _, err = tx.ExecContext(ctx, createSubsetQuery(table, cols)); err != nil {
			return nil, fmt.Errorf("erro ao criar tabela %s: %w", table, err)
		}
		created[table] = cols
		s.logger.Info("tabela criada", zap.String("table", string(table)), zap.Int("columns", len(cols)))
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao confirmar criação das tabelas: %w", err)
	}
	return created, nil
}

// SelectColumns traduz os campos originais e mantém os que existem na tabela.
func SelectColumns(fields []string, mapping columns.Mapping, present map[string]bool) []string {
	var cols []string
	for _, field := range fields {
		target := mapping.Target(field)
		if present[target] {
			cols = append(cols, target)
		}
	}
	return cols
}

func createSubsetQuery(table models.Table, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT %s FROM %s",
		pq.QuoteIdentifier(string(table)), strings.Join(quoted, ", "), pq.QuoteIdentifier(models.RawTable))
}
