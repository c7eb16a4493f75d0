package markup

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/starford/spip2md/internal/apperr"
)

var (
	multiBlock   = regexp2.MustCompile(`<multi>(.+?)</multi>`, is)
	multiSegment = regexp2.MustCompile(`\[([a-zA-Z\-]{2,6})\]\s*(.*?)\s*(?=\[[a-zA-Z\-]{2,6}\]|\z)`, is)
)

// LanguageVariant is the text a field would have in another language.
type LanguageVariant struct {
	Lang string
	Text string
}

// Extraction is the result of selecting one language in a field.
type Extraction struct {
	// Text has every block replaced by the requested segment. Blocks without
	// it fall back to their first segment.
	Text string
	// Pinned is set when at least one block supplied the requested language.
	Pinned bool
	// HasBlocks is false when the field holds no multi-language block.
	HasBlocks bool
	// Missing counts blocks without a segment for the requested language.
	Missing int
	// Variants holds the field rendered in every other language met in its
	// blocks, in order of first appearance.
	Variants []LanguageVariant
}

type segment struct {
	lang string
	text string
}

type block struct {
	start, end int
	segments   []segment
}

func (b *block) pick(lang string) (string, bool) {
	for _, s := range b.segments {
		if strings.EqualFold(s.lang, lang) {
			return s.text, true
		}
	}
	if len(b.segments) > 0 {
		return b.segments[0].text, false
	}
	return "", false
}

// Extract selects lang in every multi-language block of text. It returns an
// error wrapping apperr.ErrLanguageNotFound when a block has no segment for
// lang; the Extraction is filled in either case.
func Extract(text, lang string) (Extraction, error) {
	blocks, err := findBlocks(text)
	if err != nil {
		return Extraction{Text: text}, err
	}
	if len(blocks) == 0 {
		return Extraction{Text: text}, nil
	}

	ext := Extraction{HasBlocks: true}
	ext.Text, ext.Missing = render(text, blocks, lang)
	ext.Pinned = ext.Missing < len(blocks)

	for _, other := range languages(blocks) {
		if strings.EqualFold(other, lang) {
			continue
		}
		variant, _ := render(text, blocks, other)
		ext.Variants = append(ext.Variants, LanguageVariant{Lang: other, Text: variant})
	}

	if ext.Missing > 0 {
		return ext, fmt.Errorf("markup: %d of %d blocks lack %q: %w",
			ext.Missing, len(blocks), lang, apperr.ErrLanguageNotFound)
	}
	return ext, nil
}

func findBlocks(text string) ([]block, error) {
	var blocks []block
	m, err := multiBlock.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = multiBlock.FindNextMatch(m) {
		b := block{start: m.Index, end: m.Index + m.Length}
		inner := m.GroupByNumber(1).String()
		s, serr := multiSegment.FindStringMatch(inner)
		for ; s != nil && serr == nil; s, serr = multiSegment.FindNextMatch(s) {
			b.segments = append(b.segments, segment{
				lang: strings.ToLower(s.GroupByNumber(1).String()),
				text: s.GroupByNumber(2).String(),
			})
		}
		if serr != nil {
			return nil, fmt.Errorf("markup: scan segments: %w", serr)
		}
		blocks = append(blocks, b)
	}
	if err != nil {
		return nil, fmt.Errorf("markup: scan blocks: %w", err)
	}
	return blocks, nil
}

// render replaces each block by its lang segment. regexp2 reports offsets in
// runes, so the text is sliced as a rune array.
func render(text string, blocks []block, lang string) (string, int) {
	runes := []rune(text)
	var (
		b       strings.Builder
		prev    int
		missing int
	)
	for i := range blocks {
		seg, ok := blocks[i].pick(lang)
		if !ok {
			missing++
		}
		b.WriteString(string(runes[prev:blocks[i].start]))
		b.WriteString(seg)
		prev = blocks[i].end
	}
	b.WriteString(string(runes[prev:]))
	return b.String(), missing
}

func languages(blocks []block) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, b := range blocks {
		for _, s := range b.segments {
			if !seen[s.lang] {
				seen[s.lang] = true
				langs = append(langs, s.lang)
			}
		}
	}
	return langs
}
