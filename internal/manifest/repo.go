package manifest

import (
	"fmt"
	"time"
)

// FileRow represents a row in the files table.
type FileRow struct {
	Path           string
	Lang           string
	Title          string
	TranslationKey int64
	Draft          bool
	Checksum       string
	UpdatedAt      time.Time
}

// UpsertFile inserts or replaces a page and its outgoing links within a transaction.
func (db *DB) UpsertFile(f FileRow, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("manifest: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO files (path, lang, title, translation_key, draft, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			lang            = excluded.lang,
			title           = excluded.title,
			translation_key = excluded.translation_key,
			draft           = excluded.draft,
			checksum        = excluded.checksum,
			updated_at      = excluded.updated_at
	`, f.Path, f.Lang, f.Title, f.TranslationKey, f.Draft, f.Checksum, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("manifest: upsert file: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, f.Path); err != nil {
		return fmt.Errorf("manifest: clear links: %w", err)
	}
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("manifest: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(f.Path, target); err != nil {
				return fmt.Errorf("manifest: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteFile removes a page and its outgoing links.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("manifest: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, path); err != nil {
		return fmt.Errorf("manifest: delete links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("manifest: delete file: %w", err)
	}

	return tx.Commit()
}

// AllChecksums returns the stored checksum of every page, keyed by path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("manifest: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// File returns the row stored for path.
func (db *DB) File(path string) (*FileRow, error) {
	var f FileRow
	err := db.conn.QueryRow(`
		SELECT path, lang, title, translation_key, draft, checksum, updated_at
		FROM files WHERE path = ?`, path).
		Scan(&f.Path, &f.Lang, &f.Title, &f.TranslationKey, &f.Draft, &f.Checksum, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("manifest: file %s: %w", path, err)
	}
	return &f, nil
}

// Translations returns the pages sharing a translation key, by language.
func (db *DB) Translations(key int64) (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT lang, path FROM files WHERE translation_key = ? ORDER BY path`, key)
	if err != nil {
		return nil, fmt.Errorf("manifest: translations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var lang, p string
		if err := rows.Scan(&lang, &p); err != nil {
			return nil, err
		}
		if _, dup := out[lang]; !dup {
			out[lang] = p
		}
	}
	return out, rows.Err()
}

// Backlinks returns all page paths that link to the given target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("manifest: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
