// Package markup converts SPIP markup to Markdown.
//
// Conversion is an ordered list of regular expression rewrites rather than a
// parser: real content has overlapping and unbalanced delimiters that no
// grammar accepts. Text goes through Repairer first, then Extract for the
// requested language, then Translator.
package markup

import (
	"strings"

	"github.com/starford/spip2md/internal/models"
)

// Options tunes the translator.
type Options struct {
	Footnotes      string // FootnotesDrop or FootnotesInline
	WikiURL        string // fmt template receiving the escaped term
	RemoveHTML     bool   // strip residual tags
	MetadataMarkup bool   // keep Markdown in front matter fields
}

// Translator applies the rule table to body and front matter fields.
// It holds no mutable state and is safe for concurrent use.
type Translator struct {
	opts  Options
	rules []Rule
}

// NewTranslator builds a Translator and its rule table.
func NewTranslator(opts Options) *Translator {
	return &Translator{
		opts:  opts,
		rules: Rules(opts.Footnotes, opts.WikiURL),
	}
}

// Rules returns the rule table in application order.
func (t *Translator) Rules() []Rule {
	return t.rules
}

// Field converts f according to its role.
func (t *Translator) Field(f models.Field) (string, error) {
	if f.Role == models.RoleMeta {
		return t.Meta(f.Raw)
	}
	return t.Body(f.Raw)
}

// Body converts a body field: block and inline rules, then cleanup.
func (t *Translator) Body(s string) (string, error) {
	return t.run(s, false)
}

// Meta converts a single-line front matter field. Block rules do not apply.
func (t *Translator) Meta(s string) (string, error) {
	return t.run(s, true)
}

func (t *Translator) run(s string, meta bool) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	plain := meta && !t.opts.MetadataMarkup

	var err error
	for i := range t.rules {
		r := &t.rules[i]
		if !r.Scope.covers(meta) {
			continue
		}
		if s, err = r.apply(s, plain); err != nil {
			return "", err
		}
	}
	if t.opts.RemoveHTML {
		if s, err = htmlTag.apply(s, plain); err != nil {
			return "", err
		}
	}
	if !meta {
		if s, err = blankLines.apply(s, false); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(s), nil
}
