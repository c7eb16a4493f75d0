package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/spip2md/internal/frontmatter"
	"github.com/starford/spip2md/internal/markup"
	"github.com/starford/spip2md/internal/source"
)

var languageTag = regexp.MustCompile(`^[a-z]{2,3}(?:[_-][a-z0-9]{1,3})?$`)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Source   SourceConfig      `yaml:"source"`
	Export   ExportConfig      `yaml:"export"`
	Manifest ManifestConfig    `yaml:"manifest"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"` // stderr when empty
	ClearLog bool       `yaml:"clear_log"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError)),
	)
}

// SourceConfig locates the SPIP database and its uploaded files.
type SourceConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AssetDir    string `yaml:"asset_dir"`
	TablePrefix string `yaml:"table_prefix"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(source.DriverSQLite, source.DriverMySQL)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.TablePrefix, validation.Match(regexp.MustCompile(`^[A-Za-z0-9_]+$`))),
	)
}

// ExportConfig holds the export tuning.
type ExportConfig struct {
	OutputDir              string   `yaml:"output_dir"`
	ClearOutput            bool     `yaml:"clear_output"`
	Languages              []string `yaml:"languages"`
	StorageLanguage        string   `yaml:"storage_language"`
	TitleMaxLength         int      `yaml:"title_max_length"`
	FileExtension          string   `yaml:"file_extension"`
	FrontMatter            string   `yaml:"front_matter"`
	ExportDrafts           bool     `yaml:"export_drafts"`
	ExportEmpty            bool     `yaml:"export_empty"`
	RemoveHTML             bool     `yaml:"remove_html"`
	MetadataMarkup         bool     `yaml:"metadata_markup"`
	PrependH1              bool     `yaml:"prepend_h1"`
	PrependID              bool     `yaml:"prepend_id"`
	IgnorePatterns         []string `yaml:"ignore_patterns"`
	Footnotes              string   `yaml:"footnotes"`
	WikilinkURL            string   `yaml:"wikilink_url"`
	UnknownCharReplacement string   `yaml:"unknown_char_replacement"`
	Workers                int      `yaml:"workers"`
	DebugMeta              bool     `yaml:"debug_meta"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Languages, validation.Required, validation.Each(validation.Required, validation.Length(2, 6), validation.Match(languageTag))),
		validation.Field(&c.StorageLanguage, validation.Length(2, 6), validation.Match(languageTag)),
		validation.Field(&c.TitleMaxLength, validation.Min(0)),
		validation.Field(&c.FileExtension, validation.Required, validation.Match(regexp.MustCompile(`^[A-Za-z0-9]+$`))),
		validation.Field(&c.FrontMatter, validation.Required, validation.In(frontmatter.FormatYAML, frontmatter.FormatTOML)),
		validation.Field(&c.Footnotes, validation.Required, validation.In(markup.FootnotesDrop, markup.FootnotesInline)),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// ManifestConfig enables the export manifest when Path is set.
type ManifestConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether a manifest should be written.
func (c *ManifestConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			LogFile:  "spip2md.log",
			ClearLog: true,
		},
		Source: SourceConfig{
			Driver:      source.DriverMySQL,
			AssetDir:    "IMG",
			TablePrefix: source.DefaultPrefix,
		},
		Export: ExportConfig{
			OutputDir:      "output",
			ClearOutput:    true,
			Languages:      []string{"fr", "en"},
			TitleMaxLength: 40,
			FileExtension:  "md",
			FrontMatter:    frontmatter.FormatYAML,
			ExportDrafts:   true,
			ExportEmpty:    true,
			RemoveHTML:     true,
			Footnotes:      markup.FootnotesDrop,
			WikilinkURL:    "https://wikipedia.org/wiki/%s",
		},
	}
}
