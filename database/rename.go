package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"dqsus/columns"
)

// RenameReport descreve o que uma execução de RenameColumns alterou.
type RenameReport struct {
	Normalized map[string]string // nome original -> nome sem acento
	Renamed    map[string]string // nome sem acento -> nome do mapeamento
	Unmapped   []string          // chaves do mapeamento sem coluna correspondente
}

// RenameColumns tira os acentos de todas as colunas de table e depois aplica
// o mapeamento. Tudo acontece numa única transação: qualquer erro desfaz as
// renomeações já feitas. Chaves sem coluna não interrompem a operação.
func (s *Store) RenameColumns(ctx context.Context, table string, mapping columns.Mapping) (report RenameReport, err error) {
	report = RenameReport{
		Normalized: make(map[string]string),
		Renamed:    make(map[string]string),
	}

	if err := s.requireFile(); err != nil {
		return report, err
	}

	db, err := s.connect(ctx)
	if err != nil {
		return report, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		s.logger.Error("erro ao renomear colunas no DuckDB", zap.String("table", table), zap.Error(err))
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Debug("rollback sem efeito", zap.Error(rbErr))
		}
	}()

	existing, err := tableColumns(ctx, tx, table)
	if err != nil {
		return report, err
	}

	// 1. Remove acentos
	current := make(map[string]bool, len(existing))
	for _, col := range existing {
		normalized := columns.StripAccents(col)
		if normalized != col {
			if err = renameColumn(ctx, tx, table, col, normalized); err != nil {
				return report, err
			}
			report.Normalized[col] = normalized
			s.logger.Info("acentos removidos da coluna", zap.String("from", col), zap.String("to", normalized))
		}
		current[normalized] = true
	}

	// 2. Aplica o mapeamento
	for _, key := range mapping.Keys() {
		target := mapping[key]
		normalizedKey := columns.StripAccents(key)
		if !current[normalizedKey] {
			report.Unmapped = append(report.Unmapped, key)
			continue
		}
		if normalizedKey == target {
			continue
		}
		if clash := conflictingColumn(current, normalizedKey, target); clash != "" {
			err = fmt.Errorf("erro ao renomear coluna %q para %q: coluna %q já existe", normalizedKey, target, clash)
			return report, err
		}
		if err = renameColumn(ctx, tx, table, normalizedKey, target); err != nil {
			return report, err
		}
		report.Renamed[normalizedKey] = target
		delete(current, normalizedKey)
		current[target] = true
	}

	if err = tx.Commit(); err != nil {
		return report, fmt.Errorf("erro ao confirmar renomeações: %w", err)
	}

	if len(report.Unmapped) > 0 {
		s.logger.Warn("colunas do mapeamento não encontradas no banco e não renomeadas",
			zap.String("table", table), zap.Int("count", len(report.Unmapped)))
		for _, col := range report.Unmapped {
			s.logger.Warn("coluna não mapeada", zap.String("column", col))
		}
	} else {
		s.logger.Info("todas as colunas renomeadas com sucesso", zap.String("table", table))
	}
	return report, nil
}

// conflictingColumn devolve a coluna, diferente de from, que o DuckDB
// consideraria igual a to. Identificadores no DuckDB não diferenciam caixa.
func conflictingColumn(current map[string]bool, from, to string) string {
	for col := range current {
		if col != from && strings.EqualFold(col, to) {
			return col
		}
	}
	return ""
}

// renameColumn troca só a caixa ("FEBRE" para "febre") em dois passos, por um
// nome temporário, já que para o DuckDB os dois nomes são o mesmo.
func renameColumn(ctx context.Context, tx execer, table, from, to string) error {
	if from != to && strings.EqualFold(from, to) {
		tmp := to + "__dqsus_tmp"
		if err := alterColumn(ctx, tx, table, from, tmp); err != nil {
			return err
		}
		return alterColumn(ctx, tx, table, tmp, to)
	}
	return alterColumn(ctx, tx, table, from, to)
}

func alterColumn(ctx context.Context, tx execer, table, from, to string) error {
	stmt := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		pq.QuoteIdentifier(table), pq.QuoteIdentifier(from), pq.QuoteIdentifier(to))
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("erro ao renomear coluna %q para %q: %w", from, to, err)
	}
	return nil
}
