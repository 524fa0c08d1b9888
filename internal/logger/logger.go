// Package logger wraps zerolog for the CLI. Operational logs go to stderr:
// stdout is reserved for the component output protocol and must stay clean.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with the small surface the CLI needs.
type Logger struct {
	base zerolog.Logger
}

// New creates a console logger at the given level writing to w (stderr when
// nil). An unknown level string is an error.
func New(level string, w io.Writer) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	console := zerolog.NewConsoleWriter()
	console.Out = w
	console.TimeFormat = time.RFC3339

	base := zerolog.New(console).Level(lvl).With().Timestamp().Logger()
	return &Logger{base: base}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// Debug writes a debug-level entry with optional key/value fields.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.emit(l.base.Debug(), msg, fields)
}

// Info writes an info-level entry with optional key/value fields.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.emit(l.base.Info(), msg, fields)
}

// Warn writes a warn-level entry with optional key/value fields.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.emit(l.base.Warn(), msg, fields)
}

// Error writes an error-level entry carrying err.
func (l *Logger) Error(err error, msg string, fields map[string]interface{}) {
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	l.emit(event, msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	if l == nil {
		return
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
