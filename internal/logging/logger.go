// Package logging provides the leveled logger used across snipgif.
//
// It is a thin layer over logrus: console output goes to stdout (errors to
// stderr) with optional ANSI colors, and an optional log file receives the
// same lines uncolored.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/term"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	file  *fileSink
}

// fileSink is the log file; writes after Close are dropped.
type fileSink struct {
	mu sync.Mutex
	f  *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return len(p), nil
	}
	return s.f.Write(p)
}

// New configures terminal colors from cfg, parses the log level and opens
// cfg.LogFile when set. Call Close when done.
func New(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	base := newBase(level)
	color := term.Enabled()
	base.AddHook(&writerHook{
		levels:    levelsFrom(logrus.WarnLevel),
		w:         os.Stdout,
		formatter: &TextFormatter{Color: color},
	})
	base.AddHook(&writerHook{
		levels:    levelsUpTo(logrus.ErrorLevel),
		w:         os.Stderr,
		formatter: &TextFormatter{Color: color},
	})

	l := &Logger{base: base, entry: logrus.NewEntry(base)}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = &fileSink{f: f}
		base.AddHook(&writerHook{
			levels:    logrus.AllLevels,
			w:         l.file,
			formatter: &TextFormatter{},
		})
	}
	return l, nil
}

// NewWriter returns a logger that writes every line, uncolored, to w.
// Useful for tests and for embedding.
func NewWriter(w io.Writer, level logrus.Level) *Logger {
	base := newBase(level)
	base.AddHook(&writerHook{
		levels:    logrus.AllLevels,
		w:         w,
		formatter: &TextFormatter{DisableTimestamp: true},
	})
	return &Logger{base: base, entry: logrus.NewEntry(base)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, logrus.PanicLevel)
}

func newBase(level logrus.Level) *logrus.Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(level)
	return base
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.file.mu.Lock()
	defer l.file.mu.Unlock()
	if l.file.f == nil {
		return nil
	}
	err := l.file.f.Close()
	l.file.f = nil
	return err
}

// WithField returns a logger that adds key=value to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithField(key, value), file: l.file}
}

// Component returns a logger tagged with a subsystem name.
func (l *Logger) Component(name string) *Logger {
	return l.WithField(componentField, name)
}

// DebugEnabled reports whether Debug lines are emitted.
func (l *Logger) DebugEnabled() bool {
	return l.base.IsLevelEnabled(logrus.DebugLevel)
}

// DebugWriter returns a writer whose lines are logged at DEBUG, or nil when
// debug logging is off. The caller must Close it.
func (l *Logger) DebugWriter() io.WriteCloser {
	if !l.DebugEnabled() {
		return nil
	}
	return l.entry.WriterLevel(logrus.DebugLevel)
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

// Success logs at INFO level, labeled SUCCESS (green).
func (l *Logger) Success(format string, args ...any) {
	l.entry.WithField(successField, true).Infof(format, args...)
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// Debug logs at DEBUG level (cyan) when the level allows it.
func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

// writerHook formats entries of the given levels onto w.
type writerHook struct {
	mu        sync.Mutex
	levels    []logrus.Level
	w         io.Writer
	formatter logrus.Formatter
}

func (h *writerHook) Levels() []logrus.Level { return h.levels }

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(line)
	return err
}

// levelsFrom returns least and every less severe level.
func levelsFrom(least logrus.Level) []logrus.Level {
	var out []logrus.Level
	for _, lv := range logrus.AllLevels {
		if lv >= least {
			out = append(out, lv)
		}
	}
	return out
}

// levelsUpTo returns most and every more severe level.
func levelsUpTo(most logrus.Level) []logrus.Level {
	var out []logrus.Level
	for _, lv := range logrus.AllLevels {
		if lv <= most {
			out = append(out, lv)
		}
	}
	return out
}
