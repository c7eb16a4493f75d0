package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	clear     bool
	languages []string
	quiet     bool
	out       io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClearOutput forces the output tree to be emptied before the export,
// whatever export.clear_output says.
func WithClearOutput(force bool) Option {
	return func(a *application) {
		a.clear = force
	}
}

// WithLanguages overrides export.languages.
func WithLanguages(langs []string) Option {
	return func(a *application) {
		a.languages = langs
	}
}

// WithQuiet suppresses per-node progress lines. The summary is still printed.
func WithQuiet(quiet bool) Option {
	return func(a *application) {
		a.quiet = quiet
	}
}

// WithOutput sets where progress and the summary are printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}
