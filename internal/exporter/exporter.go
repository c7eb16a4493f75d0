// Package exporter walks a SPIP site and writes it as a tree of Markdown
// pages with front matter, one file per node and export language.
//
// A run has two phases. The first loads the tree, translates every node in
// parallel, then names every directory and file in tree order. The second
// resolves links against the complete set of names and writes the files,
// one language pass after the other.
package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dlclark/regexp2"

	"github.com/starford/spip2md/internal/links"
	"github.com/starford/spip2md/internal/markup"
	"github.com/starford/spip2md/internal/models"
	"github.com/starford/spip2md/internal/slug"
	"github.com/starford/spip2md/internal/source"
	"github.com/starford/spip2md/internal/storage"
)

// Exporter exports one site into one destination tree.
type Exporter struct {
	repo     source.Repository
	store    storage.Provider
	cfg      Config
	logger   *slog.Logger
	observer Observer

	repairer   *markup.Repairer
	translator *markup.Translator
	ignore     []*regexp2.Regexp

	// Run scoped.
	alloc    *slug.Allocator
	index    *links.Index
	resolver *links.Resolver
}

// New returns an Exporter reading from repo and writing to store.
func New(repo source.Repository, store storage.Provider, cfg Config, opts ...Option) (*Exporter, error) {
	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("exporter: at least one language is required")
	}
	cfg.setDefaults()
	ignore, err := compilePatterns(cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	e := &Exporter{
		repo:       repo,
		store:      store,
		cfg:        cfg,
		logger:     slog.Default(),
		observer:   nopObserver{},
		repairer:   markup.NewRepairer(cfg.UnknownCharReplacement),
		translator: markup.NewTranslator(cfg.Markup),
		ignore:     ignore,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run exports the whole site. Node-scoped conditions are logged and counted
// in the summary; only repository failures and cancellation are returned.
func (e *Exporter) Run(ctx context.Context) (*Summary, error) {
	e.alloc = slug.NewAllocator()
	e.index = links.NewIndex()
	e.resolver = links.NewResolver(e.index)
	sum := &Summary{Skipped: make(map[string]int)}

	tree, all, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	e.logger.Info("tree loaded", slog.Int("nodes", len(all)), slog.Int("roots", len(tree)))

	if err := e.translateAll(ctx, all); err != nil {
		return nil, fmt.Errorf("exporter: translate: %w", err)
	}
	order := e.plan(tree, sum)
	e.logger.Info("paths resolved", slog.Int("names", e.alloc.Len()), slog.Int("targets", e.index.Len()))

	if err := e.write(ctx, order, sum); err != nil {
		return nil, fmt.Errorf("exporter: write: %w", err)
	}
	e.logger.Info("export finished",
		slog.Int("directories", sum.Directories),
		slog.Int("files", sum.Files),
		slog.Int("skipped", sum.SkippedTotal()),
		slog.Int("failed", sum.Failed),
		slog.Int("warnings", sum.Warnings))
	return sum, nil
}

// titlePrefix bounds the node attribute of log records.
const titlePrefix = 40

func nodeAttrs(n models.Node, lang string) []any {
	title := []rune(n.RawTitle())
	if len(title) > titlePrefix {
		title = title[:titlePrefix]
	}
	attrs := []any{
		slog.String("node", string(title)),
		slog.String("kind", string(n.Ref().Kind)),
		slog.Int64("id", n.Ref().ID),
	}
	if lang != "" {
		attrs = append(attrs, slog.String("lang", lang))
	}
	return attrs
}

type nopObserver struct{}

func (nopObserver) PassStarted(string, int) {}
func (nopObserver) NodeDone(Event) {}
