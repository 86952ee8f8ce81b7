// Package logging holds the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// TraceLevel sits below zap's debug level; pass-by-pass tree dumps use it.
const TraceLevel = zapcore.DebugLevel - 1

// Logger is the global logger. It discards everything until Initialize runs,
// so library code can log unconditionally.
var Logger = zap.NewNop()

// ParseLevel accepts zap level names plus "trace".
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.EqualFold(level, "trace") {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, errors.Wrapf(err, "invalid log level %q", level)
	}
	return l, nil
}

// Initialize replaces the global logger. JSON output goes to stdout for
// machine consumption; console output goes to stderr so generated artifacts
// written to stdout stay clean.
func Initialize(level string, jsonOutput bool) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	var (
		enc  zapcore.Encoder
		sink zapcore.WriteSyncer
	)
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		sink = zapcore.AddSync(os.Stdout)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
		sink = zapcore.AddSync(os.Stderr)
	}
	Logger = zap.New(zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(l)))
	return nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.Logger {
	return Logger.Named(name)
}
