package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. Init must be called before use; until
// then it is a no-op logger so early code paths never nil-panic.
var Log = zap.NewNop()

// Init configures the global logger. The `level` argument wins; if empty
// the HEREAFTER_LOG_LEVEL env var is consulted, defaulting to info.
// HEREAFTER_LOG_SINK=file:<path> redirects output to a file (append),
// which tests and long-running installs use.
func Init(level string) {
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(os.Getenv("HEREAFTER_LOG_LEVEL")))
	}
	var zl zapcore.Level
	switch lvl {
	case "debug":
		zl = zapcore.DebugLevel
	case "warn", "warning":
		zl = zapcore.WarnLevel
	case "error":
		zl = zapcore.ErrorLevel
	default:
		zl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)

	sink := zapcore.Lock(os.Stdout)
	if s := os.Getenv("HEREAFTER_LOG_SINK"); strings.HasPrefix(s, "file:") {
		path := strings.TrimPrefix(s, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			sink = zapcore.Lock(f)
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
		}
	}

	Log = zap.New(zapcore.NewCore(enc, sink, zl))
}

// Sync flushes buffered log entries. Safe to call on shutdown paths.
func Sync() {
	_ = Log.Sync()
}
