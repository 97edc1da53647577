// Package logging builds the zap logger shared by the CLI and the server.
package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// NewFormat creates a Format from a string.
// On invalid value console is returned with an error.
func NewFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	switch f {
	case FormatConsole, FormatJSON:
		return f, nil
	case "":
		return FormatConsole, nil
	}
	return FormatConsole, errors.New(`log format must be "console" or "json"`)
}

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error").
func New(w io.Writer, level string, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, errors.Wrapf(err, "log level %q", level)
		}
	}
	f, err := NewFormat(format)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	var enc zapcore.Encoder
	if f == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
