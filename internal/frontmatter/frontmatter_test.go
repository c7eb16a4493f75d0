package frontmatter

import (
	"strings"
	"testing"
	"time"
)

func sampleMeta() Meta {
	published := time.Date(2021, 3, 4, 10, 30, 0, 0, time.UTC)
	comments := true
	return Meta{
		Lang:           "fr",
		TranslationKey: 12,
		Title:          "Bonjour",
		PublishDate:    &published,
		Description:    "Une page",
		Authors:        []string{"Ana"},
		Comments:       &comments,
		AuthorDetails:  []Author{{ID: 3, Name: "Ana", Status: "1comite"}},
		SpipID:         12,
	}
}

func TestRender_YAML(t *testing.T) {
	out, err := Render(FormatYAML, sampleMeta(), "# Bonjour\n\nTexte")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "---\nlang: fr\n") {
		t.Errorf("unexpected start:\n%s", s)
	}
	for _, want := range []string{
		"translationKey: 12\n",
		"title: Bonjour\n",
		"draft: false\n",
		"authors:\n  - Ana\n",
		"comments: true\n",
		"spip_id: 12\n",
		"---\n\n# Bonjour\n\nTexte\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in:\n%s", want, s)
		}
	}
	if strings.Contains(s, "lastmod") || strings.Contains(s, "depth") {
		t.Errorf("empty optional fields rendered:\n%s", s)
	}
}

func TestRender_TOML(t *testing.T) {
	out, err := Render(FormatTOML, sampleMeta(), "Texte")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "+++\n") {
		t.Errorf("unexpected start:\n%s", s)
	}
	if !strings.Contains(s, "title = 'Bonjour'") {
		t.Errorf("missing title in:\n%s", s)
	}
	if !strings.HasSuffix(s, "+++\n\nTexte\n") {
		t.Errorf("unexpected end:\n%s", s)
	}
}

func TestRender_EmptyBody(t *testing.T) {
	out, err := Render(FormatYAML, Meta{Title: "x"}, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasSuffix(string(out), "authors: []\n---\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := Render("json", Meta{}, ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			meta := sampleMeta()
			out, err := Render(format, meta, "See [logo](logo.png).")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			doc, err := Parse(out)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if doc.Format != format {
				t.Errorf("format = %q, want %q", doc.Format, format)
			}
			if doc.Meta.Title != meta.Title || doc.Meta.TranslationKey != meta.TranslationKey {
				t.Errorf("meta = %+v", doc.Meta)
			}
			if doc.Meta.PublishDate == nil || !doc.Meta.PublishDate.Equal(*meta.PublishDate) {
				t.Errorf("publishDate = %v", doc.Meta.PublishDate)
			}
			if doc.Body != "See [logo](logo.png).\n" {
				t.Errorf("body = %q", doc.Body)
			}
		})
	}
}

func TestTime_Zero(t *testing.T) {
	if Time(time.Time{}) != nil {
		t.Error("zero time should be nil")
	}
	loc := time.FixedZone("CET", 3600)
	got := Time(time.Date(2020, 1, 1, 1, 0, 0, 0, loc))
	if got == nil || got.Location() != time.UTC || got.Hour() != 0 {
		t.Errorf("Time = %v, want UTC", got)
	}
}

func TestParse_NoHeader(t *testing.T) {
	doc, err := Parse([]byte("# Just a heading\nSome text.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Format != "" {
		t.Errorf("format = %q, want empty", doc.Format)
	}
	if doc.Title != "Just a heading" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestParse_InvalidHeaderFallback(t *testing.T) {
	input := "---\n: invalid: yaml: {{{\n---\nBody\n"
	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Format != "" || doc.Body != input {
		t.Errorf("expected whole input as body, got format=%q body=%q", doc.Format, doc.Body)
	}
}

func TestParse_UnclosedHeader(t *testing.T) {
	doc, _ := Parse([]byte("+++\ntitle = 'x'\nbody"))
	if doc.Format != "" {
		t.Errorf("format = %q, want empty", doc.Format)
	}
}

func TestExtractLinks(t *testing.T) {
	body := "![](logo.png) [a](../a/index.fr.md) [ext](https://example.org) " +
		"[top](#top) [broken](NOT FOUND) [again](../a/index.fr.md)"
	got := extractLinks(body)
	want := []string{"logo.png", "../a/index.fr.md"}
	if len(got) != len(want) {
		t.Fatalf("links = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
