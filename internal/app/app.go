package app

import (
	"io"
	"log/slog"

	"github.com/vk/pingone-import/internal/importer"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	submitter importer.Submitter
}

// Option customizes an App at construction time.
type Option func(*App)

// WithSubmitter overrides the PingOne client with a custom submitter.
// This is primarily for testing against a local server.
func WithSubmitter(s importer.Submitter) Option {
	return func(a *App) { a.submitter = s }
}

// NewApp is the constructor for the main application. The config must
// already have passed NewConfig validation.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
