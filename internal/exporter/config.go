package exporter

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/dlclark/regexp2"

	"github.com/starford/spip2md/internal/frontmatter"
	"github.com/starford/spip2md/internal/markup"
	"github.com/starford/spip2md/internal/slug"
)

// Config drives one export run.
type Config struct {
	// Languages are the export passes, in order.
	Languages []string
	// StorageLanguage selects the title directories are named after. Empty
	// means each node's own language.
	StorageLanguage string
	AssetDir        string
	TitleMaxLength  int
	FileExtension   string
	FrontMatter     string
	ExportDrafts    bool
	ExportEmpty     bool
	PrependH1       bool
	// PrependID puts "<id>-" in front of document file names.
	PrependID      bool
	IgnorePatterns []string
	// UnknownCharReplacement replaces unmappable sequences once reported.
	UnknownCharReplacement string
	// Workers bounds translation parallelism. Zero means GOMAXPROCS.
	Workers   int
	DebugMeta bool
	Markup    markup.Options
}

func (c *Config) setDefaults() {
	if c.TitleMaxLength <= 0 {
		c.TitleMaxLength = slug.DefaultMaxLength
	}
	if c.FileExtension == "" {
		c.FileExtension = "md"
	}
	if c.FrontMatter == "" {
		c.FrontMatter = frontmatter.FormatYAML
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// compilePatterns builds the ignore matchers. A pattern matches from the
// start of a title, ignoring case.
func compilePatterns(patterns []string) ([]*regexp2.Regexp, error) {
	out := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp2.Compile(`^(?:`+p+`)`, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("exporter: ignore pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger receiving node-scoped conditions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithObserver sets the receiver of progress events.
func WithObserver(o Observer) Option {
	return func(e *Exporter) {
		e.observer = o
	}
}
