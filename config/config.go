// Package config lê a configuração do .env e das variáveis de ambiente.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dqsus/columns"
	"dqsus/logging"
)

// Config reúne tudo o que o pipeline precisa.
type Config struct {
	DBPath       string
	MappingDir   string // vazio usa os JSON embutidos
	Language     string
	SourceURL    string
	SourceDir    string // quando preenchido, tem prioridade sobre SourceURL
	CacheDir     string
	DownloadRate int64 // bytes por segundo, 0 sem limite
	HTTPTimeout  time.Duration
	LogLevel     string
	LogFormat    string
	Postgres     PostgresConfig
}

// PostgresConfig é lido de HOST, PORT, USER, PASSWORD, DATABASE e SSLMODE.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Database != ""
}

// Load carrega o .env (se existir) e valida os valores.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("erro ao carregar arquivo .env: %w", err)
	}

	rate, err := getInt64EnvWithDefault("DQSUS_DOWNLOAD_RATE", 0)
	if err != nil {
		return nil, err
	}
	timeout, err := getDurationEnvWithDefault("DQSUS_HTTP_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:       getEnvWithDefault("DQSUS_DB_PATH", "data/db/db.db"),
		MappingDir:   os.Getenv("DQSUS_MAPPING_DIR"),
		Language:     getEnvWithDefault("DQSUS_LANGUAGE", columns.English),
		SourceURL:    strings.TrimSuffix(os.Getenv("DQSUS_SOURCE_URL"), "/"),
		SourceDir:    os.Getenv("DQSUS_SOURCE_DIR"),
		CacheDir:     getEnvWithDefault("DQSUS_CACHE_DIR", "data/parquet"),
		DownloadRate: rate,
		HTTPTimeout:  timeout,
		LogLevel:     getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvWithDefault("LOG_FORMAT", "console"),
		Postgres: PostgresConfig{
			Host:     os.Getenv("HOST"),
			Port:     getEnvWithDefault("PORT", "5432"),
			User:     os.Getenv("USER"),
			Password: os.Getenv("PASSWORD"),
			Database: os.Getenv("DATABASE"),
			SSLMode:  getEnvWithDefault("SSLMODE", "disable"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("DQSUS_DB_PATH não pode ser vazio")
	}
	if _, err := columns.FileName(cfg.Language); err != nil {
		return fmt.Errorf("DQSUS_LANGUAGE: %w", err)
	}
	if cfg.SourceURL != "" {
		u, err := url.Parse(cfg.SourceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("DQSUS_SOURCE_URL deve ser uma URL http(s), recebido %q", cfg.SourceURL)
		}
	}
	if cfg.DownloadRate < 0 {
		return fmt.Errorf("DQSUS_DOWNLOAD_RATE não pode ser negativo")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("DQSUS_HTTP_TIMEOUT deve ser positivo")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser um número: %w", key, err)
	}
	return n, nil
}

func getDurationEnvWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser uma duração (ex.: 30s): %w", key, err)
	}
	return d, nil
}
