package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type options struct {
	output     io.Writer
	sentry     *SentryConfig
	component  string
	format     string
	extractors []ContextExtractor
	level      slog.Level
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level. Default: info.
func WithLevel(l slog.Level) Option {
	return func(o *options) {
		o.level = l
	}
}

// WithFormat selects "json" (default) or "text" output.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = strings.ToLower(strings.TrimSpace(format))
	}
}

// WithOutput sets the destination writer. Default: stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithComponent adds a "component" attribute to every entry.
func WithComponent(name string) Option {
	return func(o *options) {
		o.component = name
	}
}

// WithExtractors adds context extractors.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithSentry enables Sentry fan-out.
func WithSentry(cfg SentryConfig) Option {
	return func(o *options) {
		o.sentry = &cfg
	}
}

// New creates a logger writing JSON to stdout unless configured otherwise.
func New(opts ...Option) *slog.Logger {
	o := &options{
		output: os.Stdout,
		format: "json",
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}
	var handler slog.Handler
	if o.format == "text" {
		handler = slog.NewTextHandler(o.output, hopts)
	} else {
		handler = slog.NewJSONHandler(o.output, hopts)
	}

	if o.sentry != nil {
		if sh := sentryHandler(*o.sentry, slog.New(handler)); sh != nil {
			handler = fanoutHandler{handler, sh}
		}
	}

	log := slog.New(NewContextHandler(handler, o.extractors...))
	if o.component != "" {
		log = log.With(slog.String("component", o.component))
	}
	return log
}

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level.
// Unknown names map to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
