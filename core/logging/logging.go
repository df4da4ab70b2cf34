// Package logging is a thin wrapper of zap logging library.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvFormat is the environment variable that selects log format.
// "console" selects human readable output; any other value selects JSON.
const EnvFormat = EnvPrefix + "_FORMAT"

var root = newRoot(os.Getenv(EnvFormat))

func newRoot(format string) *zap.Logger {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(format, "console") {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	} else {
		enc = zapcore.NewJSONEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.DebugLevel))
}

// Named creates a named logger whose level is not yet restricted.
func Named(pkg string) *zap.Logger {
	return root.Named(pkg)
}

// New creates a logger restricted to the package log level.
// Declare it next to the package doc:
//
//	var logger = logging.New("Foo")
func New(pkg string) *zap.Logger {
	return Named(pkg).WithOptions(zap.IncreaseLevel(GetLevel(pkg).al))
}
