package exporter

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/spip2md/internal/apperr"
	"github.com/starford/spip2md/internal/models"
	"github.com/starford/spip2md/internal/slug"
)

// Document names are not bounded by the title length setting.
const documentMaxLength = 100

// plan assigns every directory and file name in tree order, fills the link
// index and returns the entries that reached the planning stage, in order.
// Excluded sections are returned but their subtree is not.
func (e *Exporter) plan(tree []*entry, sum *Summary) []*entry {
	var order []*entry

	var visit func(parentDir string, en *entry)
	visit = func(parentDir string, en *entry) {
		order = append(order, en)
		e.reportTranslation(en, sum)
		if en.state == StateFailed {
			return
		}

		if err := e.exclusion(en); err != nil {
			en.excluded = err
			en.state = StateSkipped
			return
		}

		base := slug.Make(en.storageTitle, e.cfg.TitleMaxLength)
		if base == "" {
			base = fmt.Sprintf("%s-%d", en.ref().Kind, en.ref().ID)
		}
		en.dir = path.Join(parentDir, e.alloc.Claim(parentDir, en.ref().String(), base, ""))
		e.index.AddNode(en.ref(), en.dir, en.storageTitle)

		exported := false
		for _, lang := range e.cfg.Languages {
			p := e.planPage(en, lang)
			en.pages = append(en.pages, p)
			if p.state == StatePathResolved {
				exported = true
				e.index.AddFile(en.ref(), lang, p.path, p.title)
			}
		}
		en.state = StatePathResolved

		if exported {
			e.planDocuments(en, sum)
		}

		for _, a := range en.articles {
			visit(en.dir, a)
		}
		for _, c := range en.children {
			visit(en.dir, c)
		}
	}

	for _, en := range tree {
		visit("", en)
	}
	return order
}

// exclusion returns why a node is left out of every pass, if it is.
func (e *Exporter) exclusion(en *entry) error {
	if en.content().Draft() && !e.cfg.ExportDrafts {
		return apperr.ErrDraftExcluded
	}
	if e.ignored(en.storageTitle) {
		return apperr.ErrIgnoredPattern
	}
	return nil
}

func (e *Exporter) ignored(title string) bool {
	for _, re := range e.ignore {
		if ok, _ := re.MatchString(title); ok {
			return true
		}
	}
	return false
}

// planPage decides whether en is exported in lang and where.
func (e *Exporter) planPage(en *entry, lang string) *page {
	p := &page{lang: lang, state: StatePending}
	r := en.renditions[lang]
	p.title = r.fields[models.FieldTitle]

	switch {
	case e.primaryLanguage(en) != lang && !r.pinned:
		p.err = apperr.ErrLanguageNotFound
	case e.ignored(p.title):
		p.err = apperr.ErrIgnoredPattern
	case !e.cfg.ExportEmpty && empty(r):
		p.err = apperr.ErrEmptyExcluded
	}
	if p.err != nil {
		p.state = StateSkipped
		return p
	}

	for _, f := range r.missing {
		e.logger.Debug(apperr.ErrLanguageNotFound.Error(), append(nodeAttrs(en.node, lang),
			slog.String("field", f))...)
	}
	p.path = path.Join(en.dir, pageName(en.ref().Kind, lang, e.cfg.FileExtension))
	p.state = StatePathResolved
	return p
}

// pageName is the file of a node in one language, so that every language
// of a node shares its directory.
func pageName(kind models.Kind, lang, ext string) string {
	prefix := "index"
	if kind == models.KindSection {
		prefix = "_index"
	}
	return prefix + "." + lang + "." + ext
}

func empty(r *rendition) bool {
	for _, f := range []string{models.FieldBody, models.FieldExtra, models.FieldPostscript} {
		if r.fields[f] != "" {
			return false
		}
	}
	return true
}

// planDocuments names the copies of the documents of en inside its directory.
func (e *Exporter) planDocuments(en *entry, sum *Summary) {
	for _, d := range en.docs {
		if d.missing {
			sum.Warnings++
			e.logger.Warn(apperr.ErrAssetNotFound.Error(), append(nodeAttrs(en.node, ""),
				slog.Int64("document", d.doc.ID),
				slog.String("fragment", d.src))...)
			continue
		}
		file := path.Base(d.doc.File)
		ext := path.Ext(file)
		name := strings.TrimSuffix(file, ext)
		if e.cfg.PrependID {
			name = fmt.Sprintf("%d-%s", d.doc.ID, name)
		}
		base := slug.Make(name, documentMaxLength)
		if base == "" {
			base = fmt.Sprintf("%s-%d", models.KindDocument, d.doc.ID)
		}
		d.path = path.Join(en.dir, e.alloc.Claim(en.dir, d.doc.Ref().String(), base, strings.ToLower(ext)))
		e.index.AddDocument(d.doc.ID, d.title, d.path)
	}
}
