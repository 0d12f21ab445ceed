package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"easyline/internal/config"

	"github.com/pkg/errors"
)

// Loggers are the two diagnostic sinks: Core for the rendering library and
// App for the host application
type Loggers struct {
	Core *slog.Logger
	App  *slog.Logger

	files []*os.File
}

// ParseLevel maps a config level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", name)
}

// Setup creates both loggers. Records go to console (stderr when nil) and
// to the configured file, which is truncated. A file that cannot be opened
// leaves that logger console-only; the returned error reports it while the
// Loggers stay usable.
func Setup(cfg config.Log, console io.Writer) (*Loggers, error) {
	if console == nil {
		console = os.Stderr
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	l := &Loggers{}
	var errs []string

	core, err := l.open(cfg.CoreFile, console)
	if err != nil {
		errs = append(errs, err.Error())
	}
	app, err := l.open(cfg.AppFile, console)
	if err != nil {
		errs = append(errs, err.Error())
	}

	opts := &slog.HandlerOptions{Level: level}
	l.Core = slog.New(slog.NewTextHandler(core, opts)).With("logger", "EASYLINE")
	l.App = slog.New(slog.NewTextHandler(app, opts)).With("logger", "APP")

	if len(errs) > 0 {
		return l, errors.New(strings.Join(errs, "; "))
	}
	return l, nil
}

func (l *Loggers) open(path string, console io.Writer) (io.Writer, error) {
	if path == "" {
		return console, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return console, errors.Wrapf(err, "open log file %s", path)
	}
	l.files = append(l.files, f)
	return io.MultiWriter(console, f), nil
}

// Close closes the log files. The loggers keep writing to the console.
func (l *Loggers) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.files = nil
	return first
}

// Discard returns loggers that drop every record
func Discard() *Loggers {
	nop := slog.New(slog.DiscardHandler)
	return &Loggers{Core: nop, App: nop}
}
