package exporter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/starford/spip2md/internal/apperr"
	"github.com/starford/spip2md/internal/frontmatter"
	"github.com/starford/spip2md/internal/models"
)

// write runs the language passes over the planned entries.
func (e *Exporter) write(ctx context.Context, order []*entry, sum *Summary) error {
	for i, lang := range e.cfg.Languages {
		e.observer.PassStarted(lang, len(order))
		for _, en := range order {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.writeNode(en, i, sum)
		}
	}
	return nil
}

func (e *Exporter) writeNode(en *entry, pass int, sum *Summary) {
	lang := e.cfg.Languages[pass]
	ev := Event{
		Kind:  en.ref().Kind,
		ID:    en.ref().ID,
		Title: en.storageTitle,
		Lang:  lang,
		Depth: en.depth,
		Index: en.index,
	}

	switch {
	case en.state == StateFailed:
		ev.State, ev.Err = StateFailed, en.err
		e.fail(sum, en, lang, en.err)
	case en.excluded != nil:
		ev.State, ev.Err = StateSkipped, en.excluded
		e.skip(sum, en, lang, en.excluded)
	default:
		p := en.pages[pass]
		if p.title != "" {
			ev.Title = p.title
		}
		if p.state == StateSkipped {
			e.skip(sum, en, lang, p.err)
		} else {
			ev.Warnings = e.writePage(en, p, sum)
		}
		ev.State, ev.Err, ev.Path = p.state, p.err, p.path
	}
	if ev.Title == "" {
		ev.Title = en.node.RawTitle()
	}
	e.observer.NodeDone(ev)

	if ev.State == StateWritten && !en.copied {
		en.copied = true
		e.copyDocuments(en, lang, sum)
	}
}

func (e *Exporter) skip(sum *Summary, en *entry, lang string, err error) {
	sum.Skipped[Reason(err)]++
	attrs := nodeAttrs(en.node, lang)
	if errors.Is(err, apperr.ErrLanguageNotFound) {
		e.logger.Debug(err.Error(), attrs...)
		return
	}
	e.logger.Info(err.Error(), attrs...)
}

func (e *Exporter) fail(sum *Summary, en *entry, lang string, err error) {
	sum.Failed++
	nerr := &apperr.NodeError{Ref: en.ref(), Lang: lang, Err: err}
	e.logger.Error("export failed", append(nodeAttrs(en.node, lang), slog.String("error", nerr.Error()))...)
}

// writePage renders and writes one page, returning the number of warnings.
func (e *Exporter) writePage(en *entry, p *page, sum *Summary) int {
	r := en.renditions[p.lang]
	warnings := 0
	resolve := func(name string) (string, error) {
		out, missing, err := e.resolver.Resolve(r.fields[name], en.dir, p.lang)
		if err != nil {
			return "", err
		}
		for _, m := range missing {
			warnings++
			e.logger.Warn(apperr.ErrLinkTargetNotFound.Error(), append(nodeAttrs(en.node, p.lang),
				slog.String("target", m.Ref.String()),
				slog.String("fragment", m.Fragment))...)
		}
		return out, nil
	}

	resolved := make(map[string]string, len(r.fields))
	for _, f := range en.node.Fields() {
		out, err := resolve(f.Name)
		if err != nil {
			p.state, p.err = StateFailed, err
			e.fail(sum, en, p.lang, err)
			return warnings
		}
		resolved[f.Name] = out
	}
	sum.Warnings += warnings

	data, err := frontmatter.Render(e.cfg.FrontMatter, e.frontMatter(en, p, resolved), e.body(p, resolved))
	if err == nil {
		var created int
		created, err = e.store.EnsureDir(en.dir)
		sum.Directories += created
	}
	if err == nil {
		err = e.store.Write(p.path, data)
	}
	if err != nil {
		p.state, p.err = StateFailed, fmt.Errorf("%w: %w", apperr.ErrWriteFailure, err)
		e.fail(sum, en, p.lang, p.err)
		return warnings
	}

	p.state = StateWritten
	sum.Pages++
	sum.Files++
	e.logger.Debug("page written", append(nodeAttrs(en.node, p.lang), slog.String("path", p.path))...)
	return warnings
}

// body lays out the Markdown content of a page.
func (e *Exporter) body(p *page, fields map[string]string) string {
	var parts []string
	if e.cfg.PrependH1 && p.title != "" {
		parts = append(parts, "# "+p.title)
	}
	if s := fields[models.FieldBody]; s != "" {
		parts = append(parts, s)
	}
	if s := fields[models.FieldExtra]; s != "" {
		parts = append(parts, "# EXTRA\n\n"+s)
	}
	if s := fields[models.FieldPostscript]; s != "" {
		parts = append(parts, "# POST-SCRIPTUM\n\n"+s)
	}
	return strings.Join(parts, "\n\n")
}

func (e *Exporter) frontMatter(en *entry, p *page, fields map[string]string) frontmatter.Meta {
	c := en.content()
	meta := frontmatter.Meta{
		Lang:           p.lang,
		TranslationKey: c.TranslationKey(),
		Title:          p.title,
		PublishDate:    frontmatter.Time(c.PublishedAt),
		LastMod:        frontmatter.Time(c.UpdatedAt),
		Draft:          c.Draft(),
		Description:    fields[models.FieldDescription],
		Authors:        []string{},
	}

	switch n := en.node.(type) {
	case *models.Article:
		meta.Summary = fields[models.FieldCaption]
		meta.Surtitle = fields[models.FieldSurtitle]
		meta.Subtitle = fields[models.FieldSubtitle]
		meta.Date = frontmatter.Time(n.CreatedAt)
		comments := n.AcceptDiscussion
		meta.Comments = &comments
		for _, a := range n.Authors {
			meta.Authors = append(meta.Authors, a.Name)
			meta.AuthorDetails = append(meta.AuthorDetails, frontmatter.Author{ID: a.ID, Name: a.Name, Status: a.Status})
		}
	case *models.Section:
		depth := n.Depth
		meta.Depth = &depth
	}

	if e.cfg.DebugMeta {
		meta.SpipID = c.ID
		meta.SpipSectorID = c.SectorID
	}
	return meta
}

// copyDocuments copies the documents of en into its directory.
func (e *Exporter) copyDocuments(en *entry, lang string, sum *Summary) {
	for i, d := range en.docs {
		if d.path == "" {
			continue
		}
		ev := Event{
			Kind:  models.KindDocument,
			ID:    d.doc.ID,
			Title: d.title,
			Lang:  lang,
			Depth: en.depth + 1,
			Index: i + 1,
			Path:  d.path,
			State: StateWritten,
		}
		err := e.store.CopyFrom(d.src, d.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			ev.State, ev.Err, ev.Warnings = StateSkipped, apperr.ErrAssetNotFound, 1
			sum.Warnings++
			e.logger.Warn(apperr.ErrAssetNotFound.Error(), append(nodeAttrs(en.node, lang),
				slog.Int64("document", d.doc.ID),
				slog.String("fragment", d.src))...)
		case err != nil:
			ev.State, ev.Err = StateFailed, fmt.Errorf("%w: %w", apperr.ErrWriteFailure, err)
			sum.Failed++
			e.logger.Error(apperr.ErrWriteFailure.Error(), append(nodeAttrs(en.node, lang),
				slog.Int64("document", d.doc.ID),
				slog.String("error", err.Error()))...)
		default:
			sum.Documents++
			sum.Files++
		}
		e.observer.NodeDone(ev)
	}
}
