// Package logging sets up the process-wide slog logger.
//
// The terminal UI owns stdout, so records go to a rotating log file or, when
// no file is configured, to stderr for the non-interactive commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the log sink and verbosity.
type Config struct {
	Level      string `yaml:"level"`
	IncludeSrc bool   `yaml:"include_src"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxAge     int    `yaml:"max_age"`     // days
	MaxBackups int    `yaml:"max_backups"` // rotated files kept
	Compress   bool   `yaml:"compress"`
}

// New builds a JSON logger for cfg. The returned closer releases the log
// file and is safe to call when logging goes to stderr.
func New(cfg Config) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{
		Level:     LevelFromString(cfg.Level),
		AddSource: cfg.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
					source.Function = strings.TrimPrefix(source.Function, "github.com/abhisek/fieldsurvey/")
				}
			}
			return a
		},
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.Filename != "" {
		target := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxAge,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}
		w, closer = target, target
	}

	return slog.New(slog.NewJSONHandler(w, opts)), closer
}

// Init builds the logger for cfg and installs it as the slog default.
func Init(cfg Config) io.Closer {
	logger, closer := New(cfg)
	slog.SetDefault(logger)
	return closer
}

// LevelFromString maps a config level name to a slog level. Unknown names
// fall back to info.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
