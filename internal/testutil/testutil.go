// Package testutil provides shared test helpers for setting up SPIP databases
// and output trees.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/spip2md/internal/storage"
)

// spipSchema is the subset of the SPIP 3 schema read by the exporter.
const spipSchema = `
CREATE TABLE spip_rubriques (
	id_rubrique bigint(21) NOT NULL PRIMARY KEY,
	id_parent   bigint(21) NOT NULL DEFAULT 0,
	titre       text NOT NULL DEFAULT '',
	descriptif  text NOT NULL DEFAULT '',
	texte       longtext NOT NULL DEFAULT '',
	extra       longtext,
	statut      varchar(10) NOT NULL DEFAULT '0',
	lang        varchar(10) NOT NULL DEFAULT '',
	id_secteur  bigint(21) NOT NULL DEFAULT 0,
	date        datetime NOT NULL DEFAULT '0000-00-00 00:00:00',
	maj         timestamp
);

CREATE TABLE spip_articles (
	id_article     bigint(21) NOT NULL PRIMARY KEY,
	id_rubrique    bigint(21) NOT NULL DEFAULT 0,
	surtitre       text NOT NULL DEFAULT '',
	titre          text NOT NULL DEFAULT '',
	soustitre      text NOT NULL DEFAULT '',
	descriptif     text NOT NULL DEFAULT '',
	chapo          mediumtext NOT NULL DEFAULT '',
	texte          longtext NOT NULL DEFAULT '',
	ps             mediumtext NOT NULL DEFAULT '',
	extra          longtext,
	statut         varchar(10) NOT NULL DEFAULT '0',
	lang           varchar(10) NOT NULL DEFAULT '',
	id_secteur     bigint(21) NOT NULL DEFAULT 0,
	id_trad        bigint(21) NOT NULL DEFAULT 0,
	accepter_forum char(3) NOT NULL DEFAULT '',
	date           datetime NOT NULL DEFAULT '0000-00-00 00:00:00',
	date_redac     datetime NOT NULL DEFAULT '0000-00-00 00:00:00',
	maj            timestamp
);

CREATE TABLE spip_documents (
	id_document      bigint(21) NOT NULL PRIMARY KEY,
	id_vignette      bigint(21) NOT NULL DEFAULT 0,
	titre            text NOT NULL DEFAULT '',
	descriptif       text NOT NULL DEFAULT '',
	fichier          text NOT NULL DEFAULT '',
	media            varchar(10) NOT NULL DEFAULT 'file',
	statut           varchar(10) NOT NULL DEFAULT '0',
	date_publication datetime NOT NULL DEFAULT '0000-00-00 00:00:00'
);

CREATE TABLE spip_documents_liens (
	id_document bigint(21) NOT NULL DEFAULT 0,
	id_objet    bigint(21) NOT NULL DEFAULT 0,
	objet       varchar(25) NOT NULL DEFAULT '',
	PRIMARY KEY (id_document, id_objet, objet)
);

CREATE TABLE spip_auteurs (
	id_auteur bigint(21) NOT NULL PRIMARY KEY,
	nom       text NOT NULL DEFAULT '',
	login     varchar(255) NOT NULL DEFAULT '',
	statut    varchar(255) NOT NULL DEFAULT '0'
);

CREATE TABLE spip_auteurs_liens (
	id_auteur bigint(21) NOT NULL DEFAULT 0,
	id_objet  bigint(21) NOT NULL DEFAULT 0,
	objet     varchar(25) NOT NULL DEFAULT '',
	PRIMARY KEY (id_auteur, id_objet, objet)
);
`

// SiteDB creates a temporary SQLite SPIP database, applies the schema and runs
// the seed statements. It returns the database path and an open handle that is
// closed on cleanup.
func SiteDB(t *testing.T, seed ...string) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spip.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(spipSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	for _, stmt := range seed {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
	return path, db
}

// OutputTree creates a temporary output directory with a storage.FS on it.
func OutputTree(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteAsset creates a source asset file under dir.
func WriteAsset(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of a file under dir, failing the test if missing.
func ReadFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}
