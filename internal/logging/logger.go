// Package logging builds the zap loggers used by the CLI and MCP server.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// Format is "console" (default) or "json".
	Format string
	// Output receives log lines; the CLI passes stderr.
	Output io.Writer
}

// New creates a logger writing to opts.Output.
func New(opts Options) (*zap.Logger, error) {
	if opts.Output == nil {
		return nil, fmt.Errorf("logging: output writer is required")
	}
	if opts.Format != "" && opts.Format != "console" && opts.Format != "json" {
		return nil, fmt.Errorf("logging: unknown format %q (valid: console, json)", opts.Format)
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(newEncoder(opts.Format), zapcore.AddSync(opts.Output), level)
	return zap.New(core), nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderCfg)
	}
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderCfg)
}
