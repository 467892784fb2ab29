// Package dqsus baixa, normaliza e devolve os dados do SINAN de dengue, zika
// e chikungunya.
//
// Cada acessor (GetNotifications, GetPersonalData...) executa o pipeline
// completo: busca os arquivos dos anos pedidos, carrega no DuckDB, renomeia
// as colunas, monta as tabelas de resultado e lê a tabela pedida já limpa.
package dqsus

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"dqsus/columns"
	"dqsus/config"
	"dqsus/database"
	"dqsus/metrics"
	"dqsus/models"
	"dqsus/sinan"
)

// ErrNoSource indica que nem DQSUS_SOURCE_DIR nem DQSUS_SOURCE_URL foram
// configurados.
var ErrNoSource = errors.New("nenhuma origem configurada: defina DQSUS_SOURCE_DIR ou DQSUS_SOURCE_URL")

// Store é o que o pipeline usa do banco.
type Store interface {
	Load(ctx context.Context, paths []string) error
	RenameColumns(ctx context.Context, table string, mapping columns.Mapping) (database.RenameReport, error)
	Transform(ctx context.Context, mapping columns.Mapping) (map[models.Table][]string, error)
	Table(ctx context.Context, table string, limit int) (dataframe.DataFrame, error)
}

// Client guarda a configuração; origem e banco são criados a cada execução
// com o logger dela.
type Client struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	mappings fs.FS

	newSource func(*zap.Logger) (sinan.Source, error)
	newStore  func(*zap.Logger) Store
}

type Option func(*Client)

// WithSource fixa a origem dos arquivos.
func WithSource(src sinan.Source) Option {
	return func(c *Client) {
		c.newSource = func(*zap.Logger) (sinan.Source, error) { return src, nil }
	}
}

func WithStore(store Store) Option {
	return func(c *Client) {
		c.newStore = func(*zap.Logger) Store { return store }
	}
}

// WithMappings lê os JSON de mapeamento de fsys em vez do diretório
// configurado ou dos arquivos embutidos.
func WithMappings(fsys fs.FS) Option {
	return func(c *Client) { c.mappings = fsys }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{cfg: cfg, logger: logger, metrics: metrics.New()}
	c.newSource = c.defaultSource
	c.newStore = func(log *zap.Logger) Store { return database.New(cfg.DBPath, log) }
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// defaultSource prefere o diretório local à origem HTTP.
func (c *Client) defaultSource(logger *zap.Logger) (sinan.Source, error) {
	switch {
	case c.cfg.SourceDir != "":
		return sinan.NewDirSource(c.cfg.SourceDir, logger), nil
	case c.cfg.SourceURL != "":
		return sinan.NewHTTPSource(c.cfg.SourceURL, c.cfg.CacheDir, logger,
			sinan.WithClient(&http.Client{Timeout: c.cfg.HTTPTimeout}),
			sinan.WithRate(c.cfg.DownloadRate),
		), nil
	}
	return nil, ErrNoSource
}

func (c *Client) mapping(logger *zap.Logger) (columns.Mapping, error) {
	switch {
	case c.mappings != nil:
		return columns.Load(c.mappings, c.cfg.Language, logger)
	case c.cfg.MappingDir != "":
		return columns.LoadDir(c.cfg.MappingDir, c.cfg.Language, logger)
	}
	return columns.Default(c.cfg.Language, logger)
}

// Mapping carrega o mapeamento do idioma configurado.
func (c *Client) Mapping() (columns.Mapping, error) {
	return c.mapping(c.logger)
}
