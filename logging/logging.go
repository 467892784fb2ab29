// Package logging monta o logger zap usado por todos os componentes.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel aceita "debug", "info", "warn" e "error".
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("nível de log inválido: %q", level)
}

// New cria o logger. format "console" usa a saída de desenvolvimento; qualquer
// outro valor gera JSON no stdout.
func New(level, format string) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("erro ao criar logger: %w", err)
	}
	return logger.With(zap.String("service_name", "dqsus")), nil
}

// Quiet devolve um logger mudo quando verbose é falso.
func Quiet(logger *zap.Logger, verbose bool) *zap.Logger {
	if verbose && logger != nil {
		return logger
	}
	return zap.NewNop()
}
