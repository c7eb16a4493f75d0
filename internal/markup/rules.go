package markup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dlclark/regexp2"
)

// Scope selects the fields a rule applies to.
type Scope int

const (
	// ScopeBody rules only run on body fields (block constructs).
	ScopeBody Scope = iota + 1
	// ScopeMeta rules only run on front matter fields.
	ScopeMeta
	// ScopeAll rules run on every field.
	ScopeAll
)

func (s Scope) covers(meta bool) bool {
	switch s {
	case ScopeAll:
		return true
	case ScopeMeta:
		return meta
	default:
		return !meta
	}
}

// Rule is one entry of the ordered rewrite table.
//
// Replace uses regexp2 substitution syntax (${1}). When Eval is set it takes
// precedence over Replace. Plain is the replacement used on front matter
// fields when markup is not kept there; PlainEval likewise.
type Rule struct {
	Name      string
	Scope     Scope
	Pattern   *regexp2.Regexp
	Replace   string
	Eval      regexp2.MatchEvaluator
	Plain     string
	PlainEval regexp2.MatchEvaluator
	Rationale string
}

func (r *Rule) apply(s string, plain bool) (string, error) {
	var (
		out string
		err error
	)
	switch {
	case plain && r.PlainEval != nil:
		out, err = r.Pattern.ReplaceFunc(s, r.PlainEval, -1, -1)
	case plain:
		out, err = r.Pattern.Replace(s, r.Plain, -1, -1)
	case r.Eval != nil:
		out, err = r.Pattern.ReplaceFunc(s, r.Eval, -1, -1)
	default:
		out, err = r.Pattern.Replace(s, r.Replace, -1, -1)
	}
	if err != nil {
		return s, fmt.Errorf("rule %s: %w", r.Name, err)
	}
	return out, nil
}

// Footnote handling modes.
const (
	FootnotesDrop   = "drop"
	FootnotesInline = "inline"
)

// DefaultWikiURL is the search URL template used for [?term] shorthands.
const DefaultWikiURL = "https://wikipedia.org/wiki/%s"

const (
	is   = regexp2.IgnoreCase | regexp2.Singleline
	imul = regexp2.IgnoreCase | regexp2.Multiline
)

func group(m regexp2.Match, n int) string {
	if g := m.GroupByNumber(n); g != nil {
		return g.String()
	}
	return ""
}

// quoteLines returns an evaluator prefixing every line of group n with "> ".
func quoteLines(n int) regexp2.MatchEvaluator {
	return func(m regexp2.Match) string {
		lines := strings.Split(strings.TrimSpace(group(m, n)), "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight("> "+strings.TrimSpace(l), " ")
		}
		return "\n\n" + strings.Join(lines, "\n") + "\n\n"
	}
}

// Rules builds the ordered rewrite table. Block constructs come first so that
// inline rules cannot eat their delimiters, and the bold+italic rule precedes
// the bold and italic ones.
func Rules(footnotes, wikiURL string) []Rule {
	if wikiURL == "" {
		wikiURL = DefaultWikiURL
	}
	footnote := ""
	if footnotes == FootnotesInline {
		footnote = " (${1})"
	}
	wiki := func(m regexp2.Match) string {
		term := group(m, 1)
		return "[" + term + "](" + fmt.Sprintf(wikiURL, url.PathEscape(term)) + ")"
	}

	return []Rule{
		{
			Name:      "horizontal-rule",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`\n*^[ \t]*-(?: ?-){3,}[- \t]*$\n*|\n*<hr\b[^>]*>\n*`, imul),
			Replace:   "\n\n***\n\n",
			Rationale: "a run of four dashes on its own line, or an html rule",
		},
		{
			Name:      "line-break",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`[ \t]*\n_[ \t]*(?=\n)`, regexp2.None),
			Replace:   "",
			Rationale: "an underscore line forces a break",
		},
		{
			Name:      "html-line-break",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`[ \t]*<br\b[^>]*>[ \t]*\n?`, regexp2.IgnoreCase),
			Replace:   "\n",
			Plain:     "\n",
			Rationale: "the html variant of the underscore line",
		},
		{
			Name:      "heading",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`\n*\{\{\{ *(.*?) *\}\}\}\n*`, is),
			Replace:   "\n\n## ${1}\n\n",
			Rationale: "must run before bold which shares the brace delimiter",
		},
		{
			Name:      "quote",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`<(quote|poesie)>\s*(.*?)\s*</\1>`, is),
			Eval:      quoteLines(2),
			Rationale: "every line of the block gets a marker",
		},
		{
			Name:      "quote-unclosed",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`<(?:quote|poesie)>\s*(.*?)\s*(?:\n{2,}|\z)`, is),
			Eval:      quoteLines(1),
			Rationale: "unclosed quotes end at the next blank line",
		},
		{
			Name:      "fence",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`<cadre>\n?(.*?)\s*</cadre>`, is),
			Replace:   "\n\n```\n${1}\n```\n\n",
			Rationale: "boxed text keeps its line layout",
		},
		{
			Name:      "code",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`<code>\s*(.*?)\s*(?:</code>|\n{2,}|\z)`, is),
			Replace:   "`${1}`",
			Rationale: "inline code span",
		},
		{
			Name:      "table-caption",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`^\|\|[^\n]*\|[^\n]*\|\|[ \t]*\n?`, imul),
			Replace:   "",
			Rationale: "table caption rows have no Markdown equivalent",
		},
		{
			Name:      "unordered-list",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`^-(?![#\-])\*? *`, regexp2.Multiline),
			Replace:   "- ",
			Rationale: "-* and - item prefixes",
		},
		{
			Name:      "unordered-list-star",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`^(?:<[^>\n]*>)?\* +`, regexp2.Multiline),
			Replace:   "- ",
			Rationale: "historical star prefix, sometimes behind a stray tag",
		},
		{
			Name:      "ordered-list",
			Scope:     ScopeBody,
			Pattern:   regexp2.MustCompile(`^-# *`, regexp2.Multiline),
			Replace:   "1. ",
			Rationale: "Markdown renumbers items itself",
		},
		{
			Name:      "image-embed",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<(?:img|image)([0-9]+)(?:\|[^>]*)?>`, is),
			Replace:   "![](img${1})",
			Plain:     "",
			Rationale: "placeholder resolved once every path is known",
		},
		{
			Name:      "document-embed",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<(?:doc|document|emb|embed)([0-9]+)(?:\|[^>]*)?>`, is),
			Replace:   "[](doc${1})",
			Plain:     "",
			Rationale: "placeholder resolved once every path is known",
		},
		{
			Name:      "article-embed",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<(?:art|article)([0-9]+)(?:\|[^>]*)?>`, is),
			Replace:   "[](art${1})",
			Plain:     "",
			Rationale: "placeholder resolved once every path is known",
		},
		{
			Name:      "section-embed",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<(?:rub|rubrique)([0-9]+)(?:\|[^>]*)?>`, is),
			Replace:   "[](rub${1})",
			Plain:     "",
			Rationale: "placeholder resolved once every path is known",
		},
		{
			Name:      "document-link",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[ *([^\]\[]*?) *-> *(?:img|image|doc|document|emb|embed)([0-9]+) *\]`, is),
			Replace:   "[${1}](doc${2})",
			Plain:     "${1}",
			Rationale: "a link to an image downloads it rather than showing it",
		},
		{
			Name:      "article-link",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[ *([^\]\[]*?) *-> *(?:art|article)?([0-9]+) *\]`, is),
			Replace:   "[${1}](art${2})",
			Plain:     "${1}",
			Rationale: "a bare number after the arrow targets an article",
		},
		{
			Name:      "section-link",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[ *([^\]\[]*?) *-> *(?:rub|rubrique)([0-9]+) *\]`, is),
			Replace:   "[${1}](rub${2})",
			Plain:     "${1}",
			Rationale: "placeholder resolved once every path is known",
		},
		{
			Name:      "markdown-image",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`(?<!!)\[([^\]\[]*)\]\((?:img|image)([0-9]+)(?:\|[^)]*)?\)`, is),
			Replace:   "![${1}](img${2})",
			Plain:     "${1}",
			Rationale: "already-Markdown image references, skipped once marked as images",
		},
		{
			Name:      "markdown-document",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[([^\]\[]*)\]\((?:doc|document|emb|embed)([0-9]+)(?:\|[^)]*)?\)`, is),
			Replace:   "[${1}](doc${2})",
			Plain:     "${1}",
			Rationale: "already-Markdown references with a long kind name",
		},
		{
			Name:      "markdown-article",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[([^\]\[]*)\]\((?:art|article)([0-9]+)(?:\|[^)]*)?\)`, is),
			Replace:   "[${1}](art${2})",
			Plain:     "${1}",
			Rationale: "already-Markdown references with a long kind name",
		},
		{
			Name:      "markdown-section",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[([^\]\[]*)\]\((?:rub|rubrique)([0-9]+)(?:\|[^)]*)?\)`, is),
			Replace:   "[${1}](rub${2})",
			Plain:     "${1}",
			Rationale: "already-Markdown references with a long kind name",
		},
		{
			Name:      "bold-italic",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\{\{ *\{ *(.*?) *\} *\}\}`, is),
			Replace:   "***${1}***",
			Plain:     "${1}",
			Rationale: "must run before bold and italic",
		},
		{
			Name:      "bold",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\{\{ *(.*?) *\}\}`, is),
			Replace:   "**${1}**",
			Plain:     "${1}",
			Rationale: "must run before italic",
		},
		{
			Name:      "html-bold",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<(strong|b)>\s*(.*?)\s*</\1>`, is),
			Replace:   "**${2}**",
			Plain:     "${2}",
			Rationale: "html emphasis found in pasted content",
		},
		{
			Name:      "italic",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\{ *(.*?) *\}`, is),
			Replace:   "*${1}*",
			Plain:     "${1}",
			Rationale: "single braces",
		},
		{
			Name:      "html-italic",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<(i|em)>\s*(.*?)\s*</\1>`, is),
			Replace:   "*${2}*",
			Plain:     "${2}",
			Rationale: "html emphasis found in pasted content",
		},
		{
			Name:      "strikethrough",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`<del>\s*(.*?)\s*</del>`, is),
			Replace:   "~~${1}~~",
			Plain:     "${1}",
			Rationale: "GFM strikethrough",
		},
		{
			Name:      "anchor",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[ *([^\]\[]*?) *-> *([^\]\[]*?) *\]`, is),
			Replace:   "[${1}](${2})",
			Plain:     "${1}",
			Rationale: "runs after object links, which share the arrow syntax",
		},
		{
			Name:      "wikilink",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[\? *([^\]\[]*?) *\]`, is),
			Eval:      wiki,
			Plain:     "${1}",
			Rationale: "search shorthand to an external encyclopedia",
		},
		{
			Name:      "footnote",
			Scope:     ScopeAll,
			Pattern:   regexp2.MustCompile(`\[\[ *(.*?) *\]\]`, is),
			Replace:   footnote,
			Plain:     footnote,
			Rationale: "no Markdown footnote syntax is targeted",
		},
		{
			Name:      "meta-newline",
			Scope:     ScopeMeta,
			Pattern:   regexp2.MustCompile(`[ \t]*\n\s*`, regexp2.None),
			Replace:   " ",
			Plain:     " ",
			Rationale: "front matter values stay on one line",
		},
		{
			Name:      "meta-bloat",
			Scope:     ScopeMeta,
			Pattern:   regexp2.MustCompile(`^\s*(?:>+ +|\d+\. +)+`, regexp2.None),
			Replace:   "",
			Plain:     "",
			Rationale: "quote markers and hand numbering used to force ordering",
		},
	}
}

// htmlTag matches any residual html tag.
var htmlTag = Rule{
	Name:      "html-strip",
	Scope:     ScopeAll,
	Pattern:   regexp2.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`, regexp2.None),
	Replace:   "",
	Plain:     "",
	Rationale: "tags left over once every known construct is converted",
}

// blankLines collapses runs of empty lines left by removed constructs.
var blankLines = Rule{
	Name:    "blank-lines",
	Scope:   ScopeBody,
	Pattern: regexp2.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`, regexp2.None),
	Replace: "\n\n",
}
