package tui

import (
	"io"
	"log/slog"
)

// Theme holds the prefixes printed in front of messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// MarkdownRenderer turns markdown into terminal output.
type MarkdownRenderer func(markdown string) (string, error)

// Option configures the terminal components.
type Option func(*config)

type config struct {
	driver   PromptDriver
	out      io.Writer
	markdown MarkdownRenderer
	style    string
	wrap     int
	theme    Theme
	logger   *slog.Logger
}

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithOutput sets where rendered text is written. Defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(cfg *config) {
		if out != nil {
			cfg.out = out
		}
	}
}

// WithMarkdownRenderer replaces glamour.
func WithMarkdownRenderer(fn MarkdownRenderer) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.markdown = fn
		}
	}
}

// WithGlamourStyle selects a glamour standard style ("dark", "light",
// "notty"). Empty detects the terminal background.
func WithGlamourStyle(style string) Option {
	return func(cfg *config) {
		cfg.style = style
	}
}

// WithWordWrap sets the markdown wrap width.
func WithWordWrap(width int) Option {
	return func(cfg *config) {
		if width > 0 {
			cfg.wrap = width
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
