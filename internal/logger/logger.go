package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Simplici0/shiftreport/internal/config"
)

// New builds the application logger for env: colored console output in
// development, JSON in production.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case config.EnvDevelopment:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case config.EnvProduction:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", "shiftreport")), nil
}
