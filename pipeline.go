package dqsus

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dqsus/database"
	"dqsus/frame"
	"dqsus/logging"
	"dqsus/models"
	"dqsus/sinan"
)

// Query filtra a leitura de uma tabela de resultado.
type Query struct {
	Years   []int
	Disease string // um código ou vários separados por vírgula
	Limit   int    // 0 sem limite
	Verbose bool
}

// DefaultQuery pede chikungunya de 2022 e 2023, sem limite e sem logs.
func DefaultQuery() Query {
	return Query{Years: []int{2022, 2023}, Disease: string(models.Chikungunya)}
}

func (c *Client) GetNotifications(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.NotificationsInfo, q)
}

func (c *Client) GetPersonalData(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.PersonalData, q)
}

func (c *Client) GetClinicalSigns(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.ClinicalSigns, q)
}

func (c *Client) GetPatientDiseases(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.PatientDiseases, q)
}

func (c *Client) GetExams(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.Exams, q)
}

func (c *Client) GetHospitalInfo(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.HospitalInfo, q)
}

func (c *Client) GetAlarmSeverities(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.AlarmsSeverities, q)
}

func (c *Client) GetSinanInfo(ctx context.Context, q Query) (dataframe.DataFrame, error) {
	return c.getDataFromTable(ctx, models.SinanInternalInfo, q)
}

// GetTable é o acessor genérico usado pela CLI.
func (c *Client) GetTable(ctx context.Context, table models.Table, q Query) (dataframe.DataFrame, error) {
	if !table.Valid() {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", database.ErrTableNotFound, table)
	}
	return c.getDataFromTable(ctx, table, q)
}

func (c *Client) getDataFromTable(ctx context.Context, table models.Table, q Query) (dataframe.DataFrame, error) {
	logger := logging.Quiet(c.logger, q.Verbose).With(
		zap.String("run_id", uuid.NewString()),
		zap.String("table", string(table)),
	)

	diseases, err := models.ParseDiseases(q.Disease)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	src, err := c.newSource(logger)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	store := c.newStore(logger)

	// 1. Extração
	var paths []string
	for _, d := range diseases {
		files, err := src.Files(ctx, d)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("erro ao listar arquivos de %s: %w", d.Name(), err)
		}
		for _, f := range sinan.SelectYears(files, q.Years) {
			local, err := src.Fetch(ctx, f)
			if err != nil {
				return dataframe.DataFrame{}, err
			}
			paths = append(paths, local)
			c.metrics.FilesFetched.WithLabelValues(d.String()).Inc()
		}
	}
	if len(paths) == 0 {
		logger.Warn("No data available: no files for the requested years",
			zap.String("disease", q.Disease), zap.Ints("years", q.Years))
		return dataframe.DataFrame{}, nil
	}

	// 2. Carga no DuckDB
	if err := store.Load(ctx, paths); err != nil {
		return dataframe.DataFrame{}, err
	}

	// 3. Renomeação das colunas
	mapping, err := c.mapping(logger)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	report, err := store.RenameColumns(ctx, models.RawTable, mapping)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	c.metrics.ColumnsRenamed.WithLabelValues("accent").Add(float64(len(report.Normalized)))
	c.metrics.ColumnsRenamed.WithLabelValues("mapping").Add(float64(len(report.Renamed)))
	c.metrics.Unmapped.Add(float64(len(report.Unmapped)))

	// 4. Tabelas de resultado
	if _, err := store.Transform(ctx, mapping); err != nil {
		return dataframe.DataFrame{}, err
	}

	// 5. Leitura e limpeza
	data, err := store.Table(ctx, string(table), q.Limit)
	if errors.Is(err, database.ErrTableNotFound) {
		logger.Warn("No data available: table was not created for the loaded files")
		return dataframe.DataFrame{}, nil
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	data = frame.DropEmptyColumns(data)
	if frame.Empty(data) {
		logger.Warn("No data available: All columns are empty or null.")
		return dataframe.DataFrame{}, nil
	}

	data = frame.DropEmptyRows(data)
	if frame.Empty(data) {
		logger.Warn("No data available: All rows are empty or null after filtering.")
		return dataframe.DataFrame{}, nil
	}

	c.metrics.RowsReturned.WithLabelValues(string(table)).Set(float64(data.Nrow()))
	logger.Info("dados carregados", zap.Int("rows", data.Nrow()), zap.Int("columns", data.Ncol()))
	return data, nil
}
