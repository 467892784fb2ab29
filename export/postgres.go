// Package export publica um DataFrame de resultado numa tabela do Postgres.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const batchSize = 1000

// Connect abre e testa a conexão com o Postgres.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com banco de dados: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar com banco de dados: %w", err)
	}
	return db, nil
}

// Publisher recria a tabela de destino e insere as linhas em lotes, numa
// única transação.
type Publisher struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPublisher(db *sql.DB, logger *zap.Logger) *Publisher {
	return &Publisher{db: db, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, table string, df dataframe.DataFrame) (err error) {
	if df.Ncol() == 0 {
		return fmt.Errorf("nada para publicar em %s", table)
	}

	names := df.Names()
	cols := make([]series.Series, len(names))
	defs := make([]string, len(names))
	quoted := make([]string, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
		quoted[i] = pq.QuoteIdentifier(name)
		defs[i] = fmt.Sprintf("%s %s", quoted[i], inferType(cols[i]))
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// 1. Recria a tabela
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(table)); err != nil {
		return fmt.Errorf("erro ao remover tabela %s: %w", table, err)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(table), strings.Join(defs, ", "))
	if _, err = tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("erro ao criar tabela %s: %w", table, err)
	}

	// 2. Insere em lotes
	var batch [][]interface{}
	for i := 0; i < df.Nrow(); i++ {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			row[j] = value(col.Elem(i), col.Type())
		}
		batch = append(batch, row)

		if len(batch) >= batchSize {
			if err = insertBatch(ctx, tx, table, quoted, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err = insertBatch(ctx, tx, table, quoted, batch); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar publicação: %w", err)
	}

	p.logger.Info("tabela publicada no Postgres",
		zap.String("table", table), zap.Int("rows", df.Nrow()), zap.Int("columns", len(names)))
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, table string, quoted []string, batch [][]interface{}) error {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", pq.QuoteIdentifier(table), strings.Join(quoted, ", "))

	values := make([]interface{}, 0, len(batch)*len(quoted))
	for i, record := range batch {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, val := range record {
			if j > 0 {
				b.WriteString(", ")
			}
			values = append(values, val)
			fmt.Fprintf(&b, "$%d", len(values))
		}
		b.WriteString(")")
	}

	if _, err := tx.ExecContext(ctx, b.String(), values...); err != nil {
		return fmt.Errorf("erro ao inserir lote em %s: %w", table, err)
	}
	return nil
}

// inferType escolhe o tipo da coluna no Postgres. Texto só vira DATE quando
// todos os valores preenchidos estão no formato AAAA-MM-DD.
func inferType(col series.Series) string {
	switch col.Type() {
	case series.Int:
		return "BIGINT"
	case series.Float:
		return "DOUBLE PRECISION"
	case series.Bool:
		return "BOOLEAN"
	}

	valid := 0
	for i := 0; i < col.Len(); i++ {
		el := col.Elem(i)
		if el.IsNA() {
			continue
		}
		valid++
		if !isDate(el.String()) {
			return "TEXT"
		}
	}
	if valid == 0 {
		return "TEXT"
	}
	return "DATE"
}

func isDate(val string) bool {
	if len(val) != 10 || val[4] != '-' || val[7] != '-' {
		return false
	}
	var y, m, d int
	if _, err := fmt.Sscanf(val, "%4d-%2d-%2d", &y, &m, &d); err != nil {
		return false
	}
	return y >= 1900 && y <= 2100 && m >= 1 && m <= 12 && d >= 1 && d <= 31
}

func value(el series.Element, kind series.Type) interface{} {
	if el.IsNA() {
		return nil
	}
	switch kind {
	case series.Int:
		if n, err := el.Int(); err == nil {
			return int64(n)
		}
	case series.Float:
		return el.Float()
	case series.Bool:
		if b, err := el.Bool(); err == nil {
			return b
		}
	}
	return el.String()
}
