package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const tableExistsQuery = `SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`

// Table lê uma tabela de resultado como DataFrame. limit <= 0 lê tudo.
// Colunas inteiras, decimais e booleanas mantêm o tipo; o resto vira texto.
// NULL e texto em branco viram NaN.
func (s *Store) Table(ctx context.Context, table string, limit int) (dataframe.DataFrame, error) {
	if err := s.requireFile(); err != nil {
		return dataframe.DataFrame{}, err
	}

	db, err := s.connect(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer db.Close()

	var exists int
	if err := db.QueryRowContext(ctx, tableExistsQuery, table).Scan(&exists); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro ao verificar tabela %s: %w", table, err)
	}
	if exists == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	query := "SELECT * FROM " + pq.QuoteIdentifier(table)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro ao executar consulta: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro ao ler tipos das colunas: %w", err)
	}
	if len(colTypes) == 0 {
		return dataframe.DataFrame{}, nil
	}

	kinds := make([]series.Type, len(colTypes))
	values := make([][]interface{}, len(colTypes))
	for i, ct := range colTypes {
		kinds[i] = seriesType(ct.DatabaseTypeName())
		values[i] = make([]interface{}, 0)
	}

	raw := make([]any, len(colTypes))
	dest := make([]any, len(colTypes))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("erro ao fazer scan dos dados: %w", err)
		}
		for i, v := range raw {
			values[i] = append(values[i], convertValue(v, kinds[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro durante iteração das linhas: %w", err)
	}

	cols := make([]series.Series, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = series.New(values[i], kinds[i], ct.Name())
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro ao montar DataFrame: %w", df.Err)
	}

	s.logger.Debug("tabela lida", zap.String("table", table), zap.Int("rows", df.Nrow()), zap.Int("columns", df.Ncol()))
	return df, nil
}

// seriesType traduz o nome do tipo do DuckDB para o tipo da série gota.
func seriesType(dbType string) series.Type {
	t := strings.ToUpper(dbType)
	switch {
	case t == "HUGEINT" || t == "UHUGEINT" || t == "UBIGINT":
		return series.String
	case strings.HasSuffix(t, "INT") || strings.HasSuffix(t, "INTEGER"):
		return series.Int
	case t == "DOUBLE" || t == "FLOAT" || t == "REAL" || strings.HasPrefix(t, "DECIMAL"):
		return series.Float
	case t == "BOOLEAN":
		return series.Bool
	}
	return series.String
}

// convertValue deixa o valor num dos tipos que a série gota entende; os
// demais a série marcaria como NaN.
func convertValue(v any, kind series.Type) interface{} {
	if v == nil {
		return nil
	}

	switch kind {
	case series.Int:
		switch n := v.(type) {
		case int8:
			return int(n)
		case int16:
			return int(n)
		case int32:
			return int(n)
		case int64:
			return int(n)
		case uint8:
			return int(n)
		case uint16:
			return int(n)
		case uint32:
			return int(n)
		case int:
			return n
		}
	case series.Float:
		switch n := v.(type) {
		case float32:
			return float64(n)
		case float64:
			return n
		case interface{ Float64() float64 }:
			return n.Float64()
		}
	case series.Bool:
		if b, ok := v.(bool); ok {
			return b
		}
	}

	switch x := v.(type) {
	case string:
		return textOrNil(x)
	case []byte:
		return textOrNil(string(x))
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// Campos em branco nos arquivos do SINAN equivalem a NULL.
func textOrNil(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
