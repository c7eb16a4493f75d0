package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/starford/spip2md/internal/apperr"
	"github.com/starford/spip2md/internal/markup"
	"github.com/starford/spip2md/internal/models"
)

// translateAll converts every loaded node. Entries are independent, so they
// are processed in parallel; each goroutine only writes its own entry.
func (e *Exporter) translateAll(ctx context.Context, all []*entry) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for _, en := range all {
		en := en
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			en.state = StateTranslating
			if err := e.translate(en); err != nil {
				en.state = StateFailed
				en.err = err
			}
			return nil
		})
	}
	return g.Wait()
}

// languagesOf returns the languages a node must be rendered in: every pass
// and the one its directory is named after.
func (e *Exporter) languagesOf(en *entry) []string {
	langs := slices.Clone(e.cfg.Languages)
	if s := e.storageLanguage(en); !slices.Contains(langs, s) {
		langs = append(langs, s)
	}
	return langs
}

// primaryLanguage is the language a node is written in outside of any
// multi-language block.
func (e *Exporter) primaryLanguage(en *entry) string {
	if l := en.content().Lang; l != "" {
		return l
	}
	if e.cfg.StorageLanguage != "" {
		return e.cfg.StorageLanguage
	}
	if len(e.cfg.Languages) > 0 {
		return e.cfg.Languages[0]
	}
	return ""
}

func (e *Exporter) storageLanguage(en *entry) string {
	if e.cfg.StorageLanguage != "" {
		return e.cfg.StorageLanguage
	}
	return e.primaryLanguage(en)
}

func (e *Exporter) translate(en *entry) error {
	fields := en.node.Fields()
	for i, f := range fields {
		text, found := e.repairer.Repair(f.Raw)
		for _, a := range found {
			en.artifacts = append(en.artifacts, fieldArtifact{field: f.Name, Artifact: a})
		}
		fields[i].Raw = text
	}

	en.renditions = make(map[string]*rendition)
	en.variants = make(map[string][]string)
	for _, lang := range e.languagesOf(en) {
		r := &rendition{fields: make(map[string]string, len(fields))}
		for _, f := range fields {
			ex, err := markup.Extract(f.Raw, lang)
			if err != nil && !errors.Is(err, apperr.ErrLanguageNotFound) {
				return fmt.Errorf("extract %s: %w", f.Name, err)
			}
			if ex.Missing > 0 {
				r.missing = append(r.missing, f.Name)
			}
			r.pinned = r.pinned || ex.Pinned
			for _, v := range ex.Variants {
				if !slices.Contains(en.variants[v.Lang], f.Name) {
					en.variants[v.Lang] = append(en.variants[v.Lang], f.Name)
				}
			}

			f.Raw = ex.Text
			out, err := e.translator.Field(f)
			if err != nil {
				return fmt.Errorf("translate %s: %w", f.Name, err)
			}
			r.fields[f.Name] = out
		}
		en.renditions[lang] = r
	}
	en.storageTitle = en.renditions[e.storageLanguage(en)].fields[models.FieldTitle]

	for _, d := range en.docs {
		title, _ := e.repairer.Repair(d.doc.Title)
		ex, err := markup.Extract(title, e.storageLanguage(en))
		if err != nil && !errors.Is(err, apperr.ErrLanguageNotFound) {
			return fmt.Errorf("extract %s title: %w", d.doc.Ref(), err)
		}
		if d.title, err = e.translator.Meta(ex.Text); err != nil {
			return fmt.Errorf("translate %s title: %w", d.doc.Ref(), err)
		}
		d.src = filepath.Join(e.cfg.AssetDir, filepath.FromSlash(d.doc.File))
		if _, err := os.Stat(d.src); err != nil {
			d.missing = true
		}
	}
	return nil
}

// reportTranslation logs what translate found once per node. It runs after
// the parallel phase so log order follows the tree.
func (e *Exporter) reportTranslation(en *entry, sum *Summary) {
	for _, a := range en.artifacts {
		sum.Warnings++
		e.logger.Warn(apperr.ErrUnknownEncodingArtifact.Error(), append(nodeAttrs(en.node, ""),
			slog.String("field", a.field),
			slog.String("sequence", a.Sequence),
			slog.String("fragment", a.Context))...)
	}

	langs := make([]string, 0, len(en.variants))
	for l := range en.variants {
		langs = append(langs, l)
	}
	slices.Sort(langs)
	for _, l := range langs {
		attrs := append(nodeAttrs(en.node, l), slog.Any("fields", en.variants[l]))
		if slices.Contains(e.cfg.Languages, l) {
			e.logger.Debug("translation variant", attrs...)
			continue
		}
		sum.Warnings++
		e.logger.Warn("translation variant outside export languages", attrs...)
	}
}
