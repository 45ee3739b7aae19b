package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/govadmin/internal/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatZap    = "zap"
	FormatZapDev = "zap-dev"
)

// Options selects the backend and verbosity of the logger built by New.
type Options struct {
	Format string
	Level  string
	Output io.Writer
}

// New builds a Logger for opts. The returned flush func must be called
// before exit; it is a no-op for slog backends.
func New(opts Options) (Logger, func() error, error) {
	noop := func() error { return nil }
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		h := slog.NewTextHandler(opts.Output, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), noop, nil

	case FormatJSON:
		h := slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), noop, nil

	case FormatZap:
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(opts.Output), zapLevel(opts.Level))
		zl := NewZapLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
		return zl, zl.Sync, nil

	case FormatZapDev:
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(zapLevel(opts.Level))
		l, err := c.Build()
		if err != nil {
			return nil, noop, fmt.Errorf("build zap logger: %w", err)
		}
		zl := NewZapLogger(l)
		return zl, zl.Sync, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", common.ErrUnknownLogFormat, opts.Format)
	}
}

func slogLevel(l string) slog.Level {
	switch strings.ToLower(l) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zapLevel(l string) zapcore.Level {
	switch strings.ToLower(l) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
