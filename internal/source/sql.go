package source

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/spip2md/internal/models"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// DefaultPrefix is the table prefix of a stock SPIP install.
const DefaultPrefix = "spip"

// SQL reads a SPIP database through database/sql.
type SQL struct {
	db     *sql.DB
	prefix string
}

// Open connects to a SPIP database. prefix is the table prefix, "spip" when empty.
func Open(driver, dsn, prefix string) (*SQL, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		db, err = sql.Open(DriverSQLite, dsn+sep+"_busy_timeout=5000")
	case DriverMySQL:
		var cfg *mysql.Config
		if cfg, err = mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("source: parse dsn: %w", err)
		}
		// Dates are parsed here, including SPIP's zero dates.
		cfg.ParseTime = false
		var conn sqldriver.Connector
		if conn, err = mysql.NewConnector(cfg); err == nil {
			db = sql.OpenDB(conn)
		}
	default:
		return nil, fmt.Errorf("source: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("source: open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("source: ping: %w", err)
	}
	return &SQL{db: db, prefix: prefix}, nil
}

// NewSQL wraps an already opened database.
func NewSQL(db *sql.DB, prefix string) *SQL {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SQL{db: db, prefix: prefix}
}

// Close closes the underlying connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) table(name string) string {
	return s.prefix + "_" + name
}

const sectionColumns = `id_rubrique, id_parent, titre, descriptif, texte, extra,
	statut, lang, id_secteur, date, maj`

// RootSections returns the sections directly under the site root.
func (s *SQL) RootSections(ctx context.Context) ([]*models.Section, error) {
	return s.ChildSections(ctx, 0)
}

// ChildSections returns the sections whose parent is parentID.
func (s *SQL) ChildSections(ctx context.Context, parentID int64) ([]*models.Section, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id_parent = ? ORDER BY date DESC, id_rubrique ASC`,
		sectionColumns, s.table("rubriques"))
	rows, err := s.db.QueryContext(ctx, q, parentID)
	if err != nil {
		return nil, fmt.Errorf("source: sections of %d: %w", parentID, err)
	}
	defer rows.Close()

	var out []*models.Section
	for rows.Next() {
		var (
			sec         models.Section
			extra, lang sql.NullString
			date, maj   sql.NullString
		)
		if err := rows.Scan(&sec.ID, &sec.ParentID, &sec.Title, &sec.Description, &sec.Body, &extra,
			&sec.Status, &lang, &sec.SectorID, &date, &maj); err != nil {
			return nil, fmt.Errorf("source: scan section: %w", err)
		}
		sec.Extra = extra.String
		sec.Lang = lang.String
		sec.PublishedAt = parseDate(date)
		sec.CreatedAt = sec.PublishedAt
		sec.UpdatedAt = parseDate(maj)
		out = append(out, &sec)
	}
	return out, rows.Err()
}

const articleColumns = `id_article, id_rubrique, surtitre, titre, soustitre, descriptif, chapo,
	texte, ps, extra, statut, lang, id_secteur, id_trad, accepter_forum, date, date_redac, maj`

// Articles returns the articles of a section.
func (s *SQL) Articles(ctx context.Context, sectionID int64) ([]*models.Article, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id_rubrique = ? ORDER BY date DESC, id_article ASC`,
		articleColumns, s.table("articles"))
	rows, err := s.db.QueryContext(ctx, q, sectionID)
	if err != nil {
		return nil, fmt.Errorf("source: articles of %d: %w", sectionID, err)
	}
	defer rows.Close()

	var out []*models.Article
	for rows.Next() {
		var (
			a                  models.Article
			extra, lang, ps    sql.NullString
			forum              sql.NullString
			date, redac, maj   sql.NullString
			surtitle, subtitle sql.NullString
			caption            sql.NullString
			group              sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.ParentID, &surtitle, &a.Title, &subtitle, &a.Description, &caption,
			&a.Body, &ps, &extra, &a.Status, &lang, &a.SectorID, &group, &forum, &date, &redac, &maj); err != nil {
			return nil, fmt.Errorf("source: scan article: %w", err)
		}
		a.Surtitle = surtitle.String
		a.Subtitle = subtitle.String
		a.Caption = caption.String
		a.Postscript = ps.String
		a.Extra = extra.String
		a.Lang = lang.String
		a.TranslationGroup = group.Int64
		a.AcceptDiscussion = forum.String == "oui"
		a.PublishedAt = parseDate(date)
		a.RedactedAt = parseDate(redac)
		a.CreatedAt = a.RedactedAt
		if a.CreatedAt.IsZero() {
			a.CreatedAt = a.PublishedAt
		}
		a.UpdatedAt = parseDate(maj)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Documents returns the documents linked to owner, by ascending id.
func (s *SQL) Documents(ctx context.Context, owner models.Ref) ([]*models.Document, error) {
	q := fmt.Sprintf(`
		SELECT d.id_document, d.titre, d.descriptif, d.fichier, d.media, d.id_vignette, d.statut, d.date_publication
		FROM %s d
		JOIN %s l ON l.id_document = d.id_document
		WHERE l.objet = ? AND l.id_objet = ?
		ORDER BY d.id_document ASC`, s.table("documents"), s.table("documents_liens"))
	rows, err := s.db.QueryContext(ctx, q, string(owner.Kind), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("source: documents of %s: %w", owner, err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		var (
			d                  models.Document
			title, descr       sql.NullString
			media, status, pub sql.NullString
			thumb              sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &title, &descr, &d.File, &media, &thumb, &status, &pub); err != nil {
			return nil, fmt.Errorf("source: scan document: %w", err)
		}
		d.Title = title.String
		d.Description = descr.String
		d.Media = models.MediaKind(media.String)
		d.ThumbnailID = thumb.Int64
		d.Status = models.Status(status.String)
		d.PublishedAt = parseDate(pub)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Authors returns the authors of an article in link table order.
func (s *SQL) Authors(ctx context.Context, articleID int64) ([]models.Author, error) {
	q := fmt.Sprintf(`
		SELECT a.id_auteur, a.nom, a.login, a.statut
		FROM %s a
		JOIN %s l ON l.id_auteur = a.id_auteur
		WHERE l.objet = ? AND l.id_objet = ?`, s.table("auteurs"), s.table("auteurs_liens"))
	rows, err := s.db.QueryContext(ctx, q, string(models.KindArticle), articleID)
	if err != nil {
		return nil, fmt.Errorf("source: authors of %d: %w", articleID, err)
	}
	defer rows.Close()

	var out []models.Author
	for rows.Next() {
		var (
			a                   models.Author
			name, login, status sql.NullString
		)
		if err := rows.Scan(&a.ID, &name, &login, &status); err != nil {
			return nil, fmt.Errorf("source: scan author: %w", err)
		}
		a.Name = strings.TrimSpace(name.String)
		a.Login = login.String
		a.Status = status.String
		out = append(out, a)
	}
	return out, rows.Err()
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate reads a SPIP date. Zero dates and unknown layouts yield the zero time.
func parseDate(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" || strings.HasPrefix(v.String, "0000-00-00") {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t
		}
	}
	return time.Time{}
}
