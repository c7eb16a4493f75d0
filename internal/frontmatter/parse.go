package frontmatter

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// mdLinkRe matches inline Markdown links and images, capturing the target.
var mdLinkRe = regexp.MustCompile(`!?\[[^\]\[]*\]\(([^()\s]+)\)`)

// Document is a parsed exported page.
type Document struct {
	Meta   Meta
	Format string // empty when the file has no header
	Body   string
	Links  []string
	Title  string
}

// Parse reads the header and body of an exported page. A missing or invalid
// header leaves Meta empty and keeps the whole input as body.
func Parse(data []byte) (*Document, error) {
	doc := &Document{Body: string(data)}
	if format, header, body, ok := split(data); ok {
		var err error
		switch format {
		case FormatTOML:
			err = toml.Unmarshal(header, &doc.Meta)
		default:
			err = yaml.Unmarshal(header, &doc.Meta)
		}
		if err == nil {
			doc.Format = format
			doc.Body = body
		}
	}
	doc.Links = extractLinks(doc.Body)
	doc.Title = deriveTitle(doc.Meta, doc.Body)
	return doc, nil
}

// split separates the header (between leading --- or +++ delimiters) from the
// Markdown body.
func split(data []byte) (format string, header []byte, body string, ok bool) {
	trimmed := bytes.TrimLeft(data, "\n\r")

	var delim string
	switch {
	case bytes.HasPrefix(trimmed, []byte(yamlDelim)):
		format, delim = FormatYAML, yamlDelim
	case bytes.HasPrefix(trimmed, []byte(tomlDelim)):
		format, delim = FormatTOML, tomlDelim
	default:
		return "", nil, "", false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return "", nil, "", false
	}
	header = rest[:idx]
	// Body starts after the closing delimiter line.
	body = strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return format, header, body, true
}

// extractLinks returns the deduplicated local targets of Markdown links.
// External URLs, anchors and broken links are left out.
func extractLinks(body string) []string {
	matches := mdLinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if strings.Contains(target, ":") || strings.HasPrefix(target, "#") {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// deriveTitle returns the header title if present, otherwise the first H1
// heading, otherwise an empty string.
func deriveTitle(meta Meta, body string) string {
	if meta.Title != "" {
		return meta.Title
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
