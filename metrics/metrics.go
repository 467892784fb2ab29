// Package metrics conta o que cada execução do pipeline fez, para coleta via
// textfile do node_exporter.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry       *prometheus.Registry
	FilesFetched   *prometheus.CounterVec
	ColumnsRenamed *prometheus.CounterVec
	Unmapped       prometheus.Counter
	RowsReturned   *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FilesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqsus_files_fetched_total",
			Help: "Arquivos parquet obtidos da origem, por agravo.",
		}, []string{"disease"}),
		ColumnsRenamed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqsus_columns_renamed_total",
			Help: "Colunas renomeadas, por etapa (accent ou mapping).",
		}, []string{"stage"}),
		Unmapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dqsus_columns_unmapped_total",
			Help: "Entradas do mapeamento sem coluna correspondente.",
		}),
		RowsReturned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dqsus_rows_returned",
			Help: "Linhas devolvidas na última leitura de cada tabela.",
		}, []string{"table"}),
	}
	m.registry.MustRegister(m.FilesFetched, m.ColumnsRenamed, m.Unmapped, m.RowsReturned)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile grava as métricas no formato de texto do Prometheus.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("erro ao gravar métricas em %s: %w", path, err)
	}
	return nil
}
