package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var levelNames = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// ParseLevel maps a level name (debug|info|warn|warning|error) to a zerolog level.
// The second return value is false for unknown names.
func ParseLevel(s string) (zerolog.Level, bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

// Setup configures the global zerolog logger. format is "console" (default,
// human readable on stderr) or "json". Unknown levels keep the current level.
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

// SetupWriter is Setup with an explicit destination (used by tests).
func SetupWriter(w io.Writer, level, format string) {
	var out io.Writer = w
	if strings.ToLower(strings.TrimSpace(format)) != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	SetLogLevel(level)
}

// SetLogLevel parses and sets the global log level.
func SetLogLevel(s string) {
	l, ok := ParseLevel(s)
	if !ok {
		return
	}
	zerolog.SetGlobalLevel(l)
}

// TimeTrack logs the time elapsed since start at debug level.
func TimeTrack(start time.Time, label string) {
	log.Debug().Dur("took", time.Since(start)).Msg(label)
}
