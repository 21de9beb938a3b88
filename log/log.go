// Package log is the server logger. It keeps the small leveled surface the
// controller calls and writes through zerolog.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config controls which levels are written.
type Config struct {
	HideDebug bool
	HideWarn  bool
	JSON      bool // force json lines even on a terminal
}

// Logger is a leveled logger.
type Logger struct {
	zl  zerolog.Logger
	cfg Config
}

// Default is the logger used by the package level functions.
var Default = New(os.Stderr, nil)

// New creates a logger writing to w. A nil config shows every level.
func New(w io.Writer, config *Config) *Logger {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	out := w
	if !cfg.JSON && isTerminal(w) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "02 Jan 15:04:05.000"}
	}
	level := zerolog.DebugLevel
	if cfg.HideDebug {
		level = zerolog.InfoLevel
	}
	return &Logger{
		zl:  zerolog.New(out).Level(level).With().Timestamp().Int("pid", os.Getpid()).Logger(),
		cfg: cfg,
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Sub returns a logger tagged with a component name.
func (l *Logger) Sub(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger(), cfg: l.cfg}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	if level == zerolog.WarnLevel && l.cfg.HideWarn {
		return nil
	}
	return l.zl.WithLevel(level)
}

// Debugf writes a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if e := l.event(zerolog.DebugLevel); e != nil {
		e.Msgf(format, args...)
	}
}

// Infof writes an info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	if e := l.event(zerolog.InfoLevel); e != nil {
		e.Msgf(format, args...)
	}
}

// Warnf writes a warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if e := l.event(zerolog.WarnLevel); e != nil {
		e.Msgf(format, args...)
	}
}

// Errorf writes an error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if e := l.event(zerolog.ErrorLevel); e != nil {
		e.Msgf(format, args...)
	}
}

// Error writes an error value.
func (l *Logger) Error(err error) {
	if e := l.event(zerolog.ErrorLevel); e != nil {
		e.Err(err).Send()
	}
}

// Elapsed writes a debug message carrying the time spent since start.
func (l *Logger) Elapsed(start time.Time, format string, args ...interface{}) {
	if e := l.event(zerolog.DebugLevel); e != nil {
		e.Dur("elapsed", time.Since(start)).Msgf(format, args...)
	}
}

// Debugf writes a debug message to the default logger.
func Debugf(format string, args ...interface{}) {
	Default.Debugf(format, args...)
}

// Infof writes an info message to the default logger.
func Infof(format string, args ...interface{}) {
	Default.Infof(format, args...)
}

// Warnf writes a warning to the default logger.
func Warnf(format string, args ...interface{}) {
	Default.Warnf(format, args...)
}

// Errorf writes an error message to the default logger.
func Errorf(format string, args ...interface{}) {
	Default.Errorf(format, args...)
}

// Error writes an error value to the default logger.
func Error(err error) {
	Default.Error(err)
}

// Fatal writes v to the default logger and exits.
func Fatal(v ...interface{}) {
	Default.Errorf("%s", fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf writes a formatted message to the default logger and exits.
func Fatalf(format string, args ...interface{}) {
	Default.Errorf(format, args...)
	os.Exit(1)
}
