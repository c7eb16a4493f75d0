package links

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/starford/spip2md/internal/models"
)

// NotFound is the visible target of a link whose object does not exist.
const NotFound = "NOT FOUND"

var placeholder = regexp2.MustCompile(`(!?)\[([^\]\[]*)\]\((img|doc|art|rub)([0-9]+)\)`, regexp2.None)

// Missing describes one placeholder without a target.
type Missing struct {
	Ref      models.Ref
	Fragment string
}

// Resolver rewrites placeholders against an Index.
type Resolver struct {
	index *Index
}

// NewResolver returns a Resolver reading from ix. The index must be complete.
func NewResolver(ix *Index) *Resolver {
	return &Resolver{index: ix}
}

// Resolve rewrites every placeholder of text as seen from a lang page in
// dir. Placeholders without a target become NOT FOUND links and are returned.
func (r *Resolver) Resolve(text, dir, lang string) (string, []Missing, error) {
	if !strings.Contains(text, "](") {
		return text, nil, nil
	}
	var missing []Missing
	out, err := placeholder.ReplaceFunc(text, func(m regexp2.Match) string {
		bang := m.GroupByNumber(1).String()
		label := m.GroupByNumber(2).String()
		kind := m.GroupByNumber(3).String()
		id, _ := strconv.ParseInt(m.GroupByNumber(4).String(), 10, 64)

		target, ref, ok := r.lookup(kind, id, dir, lang)
		if !ok {
			missing = append(missing, Missing{Ref: ref, Fragment: m.String()})
			return bang + "[" + label + "](" + NotFound + ")"
		}
		if label == "" {
			label = target.Title
		}
		return bang + "[" + label + "](" + relative(dir, target.Path) + ")"
	}, -1, -1)
	if err != nil {
		return text, nil, fmt.Errorf("links: resolve: %w", err)
	}
	return out, missing, nil
}

func (r *Resolver) lookup(kind string, id int64, dir, lang string) (Target, models.Ref, bool) {
	switch kind {
	case "art":
		ref := models.Ref{Kind: models.KindArticle, ID: id}
		t, ok := r.index.Node(ref, lang)
		return t, ref, ok
	case "rub":
		ref := models.Ref{Kind: models.KindSection, ID: id}
		t, ok := r.index.Node(ref, lang)
		return t, ref, ok
	default:
		ref := models.Ref{Kind: models.KindDocument, ID: id}
		t, ok := r.index.Document(id, dir)
		return t, ref, ok
	}
}

// relative returns target as seen from dir, both relative to the output root.
func relative(dir, target string) string {
	if dir == "" {
		dir = "."
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
