package exporter

import (
	"context"
	"fmt"

	"github.com/starford/spip2md/internal/markup"
	"github.com/starford/spip2md/internal/models"
)

// entry is one node of the loaded tree and everything computed for it.
type entry struct {
	node  models.Node
	depth int
	index int

	articles []*entry
	children []*entry
	docs     []*docEntry

	// Filled by translate.
	state        State
	err          error
	renditions   map[string]*rendition
	artifacts    []fieldArtifact
	variants     map[string][]string
	storageTitle string

	// Filled by plan.
	dir      string
	excluded error
	pages    []*page
	copied   bool
}

// rendition is a node translated for one language.
type rendition struct {
	fields  map[string]string
	pinned  bool
	missing []string
}

type fieldArtifact struct {
	field string
	markup.Artifact
}

// docEntry is one document attached to one node.
type docEntry struct {
	doc     *models.Document
	title   string
	src     string
	missing bool
	path    string
}

// page is the file of one node in one language pass.
type page struct {
	lang  string
	state State
	err   error
	path  string
	title string
}

func (en *entry) ref() models.Ref {
	return en.node.Ref()
}

func (en *entry) content() *models.ContentNode {
	return en.node.Content()
}

// load reads the whole tree depth first. Sections reached twice are ignored.
func (e *Exporter) load(ctx context.Context) ([]*entry, []*entry, error) {
	roots, err := e.repo.RootSections(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("exporter: load roots: %w", err)
	}

	visited := make(map[int64]bool)
	var all []*entry

	var visit func(sections []*models.Section, depth int) ([]*entry, error)
	visit = func(sections []*models.Section, depth int) ([]*entry, error) {
		var out []*entry
		for _, sec := range sections {
			if visited[sec.ID] {
				e.logger.Warn("section reached twice", nodeAttrs(sec, "")...)
				continue
			}
			visited[sec.ID] = true
			sec.Depth = depth

			en := &entry{node: sec, depth: depth, index: len(out) + 1}
			all = append(all, en)
			if en.docs, err = e.loadDocuments(ctx, sec); err != nil {
				return nil, err
			}

			articles, err := e.repo.Articles(ctx, sec.ID)
			if err != nil {
				return nil, fmt.Errorf("exporter: load articles of %s: %w", sec.Ref(), err)
			}
			for i, a := range articles {
				if a.Authors, err = e.repo.Authors(ctx, a.ID); err != nil {
					return nil, fmt.Errorf("exporter: load authors of %s: %w", a.Ref(), err)
				}
				art := &entry{node: a, depth: depth + 1, index: i + 1}
				if art.docs, err = e.loadDocuments(ctx, a); err != nil {
					return nil, err
				}
				en.articles = append(en.articles, art)
				all = append(all, art)
			}

			children, err := e.repo.ChildSections(ctx, sec.ID)
			if err != nil {
				return nil, fmt.Errorf("exporter: load children of %s: %w", sec.Ref(), err)
			}
			if en.children, err = visit(children, depth+1); err != nil {
				return nil, err
			}
			out = append(out, en)
		}
		return out, nil
	}

	tree, err := visit(roots, 0)
	if err != nil {
		return nil, nil, err
	}
	return tree, all, nil
}

func (e *Exporter) loadDocuments(ctx context.Context, owner models.HasDocuments) ([]*docEntry, error) {
	docs, err := e.repo.Documents(ctx, owner.DocumentOwner())
	if err != nil {
		return nil, fmt.Errorf("exporter: load documents of %s: %w", owner.DocumentOwner(), err)
	}
	out := make([]*docEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, &docEntry{doc: d})
	}
	return out, nil
}
