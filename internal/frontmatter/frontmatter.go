// Package frontmatter renders and parses the header of exported Markdown files.
package frontmatter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Header formats, named after their delimiters' markup language.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

const (
	yamlDelim = "---"
	tomlDelim = "+++"
)

// Author is the detailed author entry of an article.
type Author struct {
	ID     int64  `yaml:"id" toml:"id"`
	Name   string `yaml:"name" toml:"name"`
	Status string `yaml:"status,omitempty" toml:"status,omitempty"`
}

// Meta is the header of one exported page. Field order is the output order.
type Meta struct {
	Lang           string     `yaml:"lang" toml:"lang"`
	TranslationKey int64      `yaml:"translationKey" toml:"translationKey"`
	Title          string     `yaml:"title" toml:"title"`
	PublishDate    *time.Time `yaml:"publishDate,omitempty" toml:"publishDate,omitempty"`
	LastMod        *time.Time `yaml:"lastmod,omitempty" toml:"lastmod,omitempty"`
	Draft          bool       `yaml:"draft" toml:"draft"`
	Description    string     `yaml:"description" toml:"description"`
	Authors        []string   `yaml:"authors" toml:"authors"`

	// Articles only.
	Summary       string     `yaml:"summary,omitempty" toml:"summary,omitempty"`
	Surtitle      string     `yaml:"surtitle,omitempty" toml:"surtitle,omitempty"`
	Subtitle      string     `yaml:"subtitle,omitempty" toml:"subtitle,omitempty"`
	Date          *time.Time `yaml:"date,omitempty" toml:"date,omitempty"`
	Comments      *bool      `yaml:"comments,omitempty" toml:"comments,omitempty"`
	AuthorDetails []Author   `yaml:"author_details,omitempty" toml:"author_details,omitempty"`

	// Sections only.
	Depth *int `yaml:"depth,omitempty" toml:"depth,omitempty"`

	SpipID       int64 `yaml:"spip_id,omitempty" toml:"spip_id,omitempty"`
	SpipSectorID int64 `yaml:"spip_id_secteur,omitempty" toml:"spip_id_secteur,omitempty"`
}

// Time returns a pointer to t, or nil for the zero time so that it is omitted.
func Time(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// Render writes the delimited header followed by body.
func Render(format string, meta Meta, body string) ([]byte, error) {
	if meta.Authors == nil {
		meta.Authors = []string{}
	}

	var buf bytes.Buffer
	switch format {
	case FormatYAML, "":
		buf.WriteString(yamlDelim + "\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("frontmatter: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("frontmatter: encode yaml: %w", err)
		}
		buf.WriteString(yamlDelim + "\n")
	case FormatTOML:
		buf.WriteString(tomlDelim + "\n")
		if err := toml.NewEncoder(&buf).Encode(meta); err != nil {
			return nil, fmt.Errorf("frontmatter: encode toml: %w", err)
		}
		buf.WriteString(tomlDelim + "\n")
	default:
		return nil, fmt.Errorf("frontmatter: unsupported format %q", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}
