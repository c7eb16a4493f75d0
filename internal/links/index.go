// Package links rewrites object placeholders left by the markup translator
// into relative Markdown links, once every exported path is known.
package links

import (
	"path"

	"github.com/starford/spip2md/internal/models"
)

// Index maps source objects to their exported paths. Paths are slash
// separated and relative to the output root.
type Index struct {
	nodes map[models.Ref]*node
	docs  map[int64]*document
}

type node struct {
	dir   string
	title string
	files map[string]file
	order []string
}

type file struct {
	path  string
	title string
}

type document struct {
	title  string
	copies []string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		nodes: make(map[models.Ref]*node),
		docs:  make(map[int64]*document),
	}
}

// AddNode records the directory of a section or article and its default title.
func (ix *Index) AddNode(ref models.Ref, dir, title string) {
	n, ok := ix.nodes[ref]
	if !ok {
		n = &node{files: make(map[string]file)}
		ix.nodes[ref] = n
	}
	n.dir = dir
	n.title = title
}

// AddFile records the file written for ref in lang, with its title in that language.
func (ix *Index) AddFile(ref models.Ref, lang, p, title string) {
	n, ok := ix.nodes[ref]
	if !ok {
		n = &node{dir: path.Dir(p), title: title, files: make(map[string]file)}
		ix.nodes[ref] = n
	}
	if _, dup := n.files[lang]; !dup {
		n.order = append(n.order, lang)
	}
	n.files[lang] = file{path: p, title: title}
}

// AddDocument records one copy of a document.
func (ix *Index) AddDocument(id int64, title, p string) {
	d, ok := ix.docs[id]
	if !ok {
		d = &document{title: title}
		ix.docs[id] = d
	}
	d.copies = append(d.copies, p)
}

// Target is a resolved link destination.
type Target struct {
	Path  string // relative to the output root
	Title string
}

// Node returns where ref is best linked from a lang page: the lang file,
// else the first file written, else its directory.
func (ix *Index) Node(ref models.Ref, lang string) (Target, bool) {
	n, ok := ix.nodes[ref]
	if !ok {
		return Target{}, false
	}
	if f, ok := n.files[lang]; ok {
		return Target{Path: f.path, Title: f.title}, true
	}
	if len(n.order) > 0 {
		f := n.files[n.order[0]]
		return Target{Path: f.path, Title: f.title}, true
	}
	return Target{Path: n.dir, Title: n.title}, true
}

// Document returns the copy of document id in dir if there is one, else its
// first copy.
func (ix *Index) Document(id int64, dir string) (Target, bool) {
	d, ok := ix.docs[id]
	if !ok || len(d.copies) == 0 {
		return Target{}, false
	}
	title := d.title
	pick := d.copies[0]
	for _, c := range d.copies {
		if path.Dir(c) == dir {
			pick = c
			break
		}
	}
	if title == "" {
		title = path.Base(pick)
	}
	return Target{Path: pick, Title: title}, true
}

// Len returns the number of indexed nodes and documents.
func (ix *Index) Len() int {
	return len(ix.nodes) + len(ix.docs)
}
