// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "UBLOXD_LOG_LEVEL"
	EnvLogNoColor = "UBLOXD_LOG_NOCOLOR"
)

// Config selects level and output format. Format is "console" (default) or
// "json".
type Config struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Init installs the global logger and returns it. Environment overrides win
// over cfg.
func Init(app string, cfg Config) zerolog.Logger {
	return InitWriter(app, cfg, os.Stderr)
}

// InitWriter is Init with an explicit destination. Each of extra receives the
// raw JSON events regardless of Format.
func InitWriter(app string, cfg Config, out io.Writer, extra ...io.Writer) zerolog.Logger {
	level, ok := ParseLevel(os.Getenv(EnvLogLevel))
	if !ok {
		level, _ = ParseLevel(cfg.Level)
	}

	w := out
	if !strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		noColor, _ := strconv.ParseBool(os.Getenv(EnvLogNoColor))
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: noColor}
	}

	if len(extra) > 0 {
		w = zerolog.MultiLevelWriter(append([]io.Writer{w}, extra...)...)
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// Component returns a child of the global logger tagged with name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// ParseLevel maps a config string to a zerolog level. Unknown or empty
// strings return info and false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
