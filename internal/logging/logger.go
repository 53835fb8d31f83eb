package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level, encoding and destination of the logger
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	// Stderr routes all output to stderr. The MCP stdio transport owns stdout.
	Stderr bool
}

// New builds a zap logger from options
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	var config zap.Config
	switch strings.ToLower(opts.Format) {
	case "", "json":
		config = zap.NewProductionConfig()
	case "console":
		config = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q: must be json or console", opts.Format)
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Stderr {
		config.OutputPaths = []string{"stderr"}
	} else {
		config.OutputPaths = []string{"stdout"}
	}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}
