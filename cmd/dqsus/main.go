package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/urfave/cli.v1"

	"dqsus"
	"dqsus/config"
	"dqsus/database"
	"dqsus/export"
	"dqsus/frame"
	"dqsus/logging"
	"dqsus/models"
)

func main() {
	app := cli.NewApp()
	app.Name = "dqsus"
	app.Usage = "dados do SINAN de dengue, zika e chikungunya"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:   "years",
			Usage:  "lista os anos disponíveis para os agravos",
			Action: yearsCommand,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "disease, d", Value: "CHIK", Usage: "DENG, ZIKA ou CHIK (vários separados por vírgula)"},
				cli.BoolFlag{Name: "json", Usage: "saída em JSON"},
			},
		},
		{
			Name:   "fetch",
			Usage:  "carrega uma tabela de resultado",
			Action: fetchCommand,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "table, t", Value: string(models.NotificationsInfo), Usage: "tabela de resultado"},
				cli.StringFlag{Name: "years, y", Value: "2022,2023", Usage: "anos separados por vírgula"},
				cli.StringFlag{Name: "disease, d", Value: "CHIK", Usage: "DENG, ZIKA ou CHIK"},
				cli.IntFlag{Name: "limit, l", Usage: "máximo de linhas (0 sem limite)"},
				cli.BoolFlag{Name: "verbose, v", Usage: "mostra os logs do pipeline"},
				cli.StringFlag{Name: "out, o", Usage: "arquivo .csv ou .xlsx (vazio ou - escreve CSV na saída padrão)"},
				cli.StringFlag{Name: "pg-table", Usage: "publica o resultado nesta tabela do Postgres"},
				cli.StringFlag{Name: "metrics-file", Usage: "grava as métricas da execução neste arquivo"},
			},
		},
		{
			Name:   "rename",
			Usage:  "normaliza as colunas de uma tabela já carregada",
			Action: renameCommand,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "db", Usage: "arquivo DuckDB (padrão DQSUS_DB_PATH)"},
				cli.StringFlag{Name: "table, t", Value: models.RawTable, Usage: "tabela a renomear (mesma caixa com que foi criada)"},
				cli.StringFlag{Name: "language", Usage: "english ou portuguese (padrão DQSUS_LANGUAGE)"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup carrega a configuração e o logger comuns a todos os comandos.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func yearsCommand(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	report, err := dqsus.New(cfg, logger).Years(ctx, c.String("disease"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Println(report.Message)
	return nil
}

func fetchCommand(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	years, err := parseYears(c.String("years"))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := dqsus.New(cfg, logger)
	table := models.Table(c.String("table"))
	df, err := client.GetTable(ctx, table, dqsus.Query{
		Years:   years,
		Disease: c.String("disease"),
		Limit:   c.Int("limit"),
		Verbose: c.Bool("verbose"),
	})
	if err != nil {
		return err
	}

	if path := c.String("metrics-file"); path != "" {
		if err := client.Metrics().WriteTextfile(path); err != nil {
			return err
		}
	}

	if err := frame.Write(df, c.String("out"), string(table), os.Stdout); err != nil {
		return err
	}

	if pgTable := c.String("pg-table"); pgTable != "" && !frame.Empty(df) {
		if !cfg.Postgres.Configured() {
			return fmt.Errorf("postgres não configurado: defina HOST e DATABASE")
		}
		db, err := export.Connect(ctx, cfg.Postgres.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := export.NewPublisher(db, logger).Publish(ctx, pgTable, df); err != nil {
			return err
		}
	}
	return nil
}

func renameCommand(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	if lang := c.String("language"); lang != "" {
		cfg.Language = lang
	}

	ctx, cancel := signalContext()
	defer cancel()

	mapping, err := dqsus.New(cfg, logger).Mapping()
	if err != nil {
		return err
	}
	report, err := database.New(cfg.DBPath, logger).RenameColumns(ctx, c.String("table"), mapping)
	if err != nil {
		return err
	}
	fmt.Printf("%d colunas normalizadas, %d renomeadas, %d entradas sem correspondência\n",
		len(report.Normalized), len(report.Renamed), len(report.Unmapped))
	return nil
}

func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("ano inválido %q: %w", part, err)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("nenhum ano informado")
	}
	return years, nil
}
