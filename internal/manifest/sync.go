package manifest

import (
	"log/slog"
	"path"

	"github.com/starford/spip2md/internal/frontmatter"
	"github.com/starford/spip2md/internal/storage"
)

// Stats counts what Sync changed.
type Stats struct {
	Indexed   int
	Unchanged int
	Removed   int
}

// Sync walks the pages (files named *.ext) of the exported tree and brings
// the manifest up to date:
//   - new/changed pages are parsed and upserted
//   - pages removed from disk are deleted from the manifest
func Sync(db *DB, store storage.Provider, ext string, logger *slog.Logger) (Stats, error) {
	var st Stats
	metas, err := store.List("", ext)
	if err != nil {
		return st, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return st, err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			st.Unchanged++
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("manifest: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m, data); err != nil {
			logger.Warn("manifest: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		st.Indexed++
		logger.Debug("manifest: indexed", slog.String("path", m.Path))
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteFile(p); err != nil {
			logger.Warn("manifest: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		st.Removed++
		logger.Debug("manifest: removed stale", slog.String("path", p))
	}

	return st, nil
}

// indexFile parses a page and upserts it with its links made root relative.
func indexFile(db *DB, m storage.FileMeta, data []byte) error {
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return err
	}

	links := make([]string, 0, len(doc.Links))
	for _, l := range doc.Links {
		links = append(links, path.Join(path.Dir(m.Path), l))
	}

	return db.UpsertFile(FileRow{
		Path:           m.Path,
		Lang:           doc.Meta.Lang,
		Title:          doc.Title,
		TranslationKey: doc.Meta.TranslationKey,
		Draft:          doc.Meta.Draft,
		Checksum:       m.Checksum,
		UpdatedAt:      m.UpdatedAt,
	}, links)
}
