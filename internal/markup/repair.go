package markup

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// mojibake pairs UTF-8 sequences that were decoded as Windows-1252 and stored
// again with their intended character. Order matters where prefixes overlap.
var mojibake = []string{
	"â€™", "’",
	"â€˜", "‘",
	"eÌ\u0081", "é",
	"eÌ€", "è",
	"eÌ‚", "ê",
	"oÌ‚", "ô",
	"iÌ‚", "î",
	"iÌˆ", "ï",
	"oÌˆ", "ö",
	"uÌˆ", "ü",
	"aÌ€", "à",
	"â€¦", "…",
	"â€œ", "“",
	"â€\u009d", "”",
	"â€“", "–",
	"â€”", "—",
	"â€\u0090", "−",
	"â€¢", "•",
	"Ã§", "ç",
	"Ã®", "î",
	"Â«", "«",
	"Â»", "»",
	"Â°", "°",
	"Ã»", "û",
	"Â\u00a0", "\u00a0",
	"iÌ\u0081", "í",
	"eÌ ", "é",
	"â€\u00a0", "†",
	"â€ ", "† ",
	"\r", "",
}

// unmappable are sequences known to be broken for which no replacement is known.
var unmappable = []string{
	"â€¨",
	"âˆ†",
}

// DefaultArtifactContext is the number of characters kept on each side of an
// unknown artifact when it is reported.
const DefaultArtifactContext = 24

// Artifact is one occurrence of an unmappable sequence.
type Artifact struct {
	Sequence string
	Context  string
	Offset   int
}

// Repairer fixes mis-decoded text before it reaches the translator.
type Repairer struct {
	fix         *strings.Replacer
	replacement string
	context     int
}

// NewRepairer returns a Repairer. A non-empty replacement is substituted for
// every unmappable sequence after it has been reported.
func NewRepairer(replacement string) *Repairer {
	return &Repairer{
		fix:         strings.NewReplacer(mojibake...),
		replacement: replacement,
		context:     DefaultArtifactContext,
	}
}

// Repair applies the mojibake table and drops carriage returns. Unmappable
// sequences are returned as artifacts, in order of appearance.
func (r *Repairer) Repair(s string) (string, []Artifact) {
	if s == "" {
		return s, nil
	}
	out := r.fix.Replace(s)

	var found []Artifact
	for _, seq := range unmappable {
		for from := 0; ; {
			i := strings.Index(out[from:], seq)
			if i < 0 {
				break
			}
			at := from + i
			found = append(found, Artifact{
				Sequence: seq,
				Context:  surrounding(out, at, len(seq), r.context),
				Offset:   at,
			})
			from = at + len(seq)
		}
	}
	slices.SortStableFunc(found, func(a, b Artifact) int { return cmp.Compare(a.Offset, b.Offset) })

	if r.replacement != "" && len(found) > 0 {
		for _, seq := range unmappable {
			out = strings.ReplaceAll(out, seq, r.replacement)
		}
	}
	return out, found
}

// surrounding returns up to n runes on each side of s[at:at+size].
func surrounding(s string, at, size, n int) string {
	start := at
	for i := 0; i < n && start > 0; i++ {
		_, w := utf8.DecodeLastRuneInString(s[:start])
		start -= w
	}
	end := at + size
	for i := 0; i < n && end < len(s); i++ {
		_, w := utf8.DecodeRuneInString(s[end:])
		end += w
	}
	return strings.ReplaceAll(s[start:end], "\n", " ")
}

