package markup

import (
	"testing"

	"github.com/starford/spip2md/internal/models"
)

func newTestTranslator(opts ...func(*Options)) *Translator {
	o := Options{Footnotes: FootnotesDrop, RemoveHTML: true}
	for _, fn := range opts {
		fn(&o)
	}
	return NewTranslator(o)
}

func body(t *testing.T, tr *Translator, in string) string {
	t.Helper()
	out, err := tr.Body(in)
	if err != nil {
		t.Fatalf("Body(%q): %v", in, err)
	}
	return out
}

func TestBody_Heading(t *testing.T) {
	got := body(t, newTestTranslator(), "{{{Titre}}}\nTexte")
	if got != "## Titre\n\nTexte" {
		t.Errorf("got %q", got)
	}
}

func TestBody_BoldItalic(t *testing.T) {
	tr := newTestTranslator()
	if got := body(t, tr, "un {{gras}} et {italique}"); got != "un **gras** et *italique*" {
		t.Errorf("got %q", got)
	}
	if got := body(t, tr, "{{ {fort} }}"); got != "***fort***" {
		t.Errorf("bold italic: got %q", got)
	}
	if got := body(t, tr, "<strong>fort</strong> <i>penché</i> <del>barré</del>"); got != "**fort** *penché* ~~barré~~" {
		t.Errorf("html emphasis: got %q", got)
	}
}

func TestBody_HorizontalRule(t *testing.T) {
	got := body(t, newTestTranslator(), "avant\n----\naprès")
	if got != "avant\n\n***\n\naprès" {
		t.Errorf("got %q", got)
	}
}

func TestBody_LineBreak(t *testing.T) {
	got := body(t, newTestTranslator(), "un\n_ \ndeux")
	if got != "un\ndeux" {
		t.Errorf("got %q", got)
	}
}

func TestBody_Quote(t *testing.T) {
	tr := newTestTranslator()
	if got := body(t, tr, "<quote>ligne un\nligne deux</quote>"); got != "> ligne un\n> ligne deux" {
		t.Errorf("got %q", got)
	}
	if got := body(t, tr, "<poesie>vers\n\nsuite"); got != "> vers\n\nsuite" {
		t.Errorf("unclosed: got %q", got)
	}
}

func TestBody_CodeAndFence(t *testing.T) {
	tr := newTestTranslator()
	if got := body(t, tr, "<code>x = 1</code>"); got != "`x = 1`" {
		t.Errorf("code: got %q", got)
	}
	if got := body(t, tr, "<cadre>\nmake all\n</cadre>"); got != "```\nmake all\n```" {
		t.Errorf("fence: got %q", got)
	}
}

func TestBody_Lists(t *testing.T) {
	got := body(t, newTestTranslator(), "-* un\n- deux\n-# trois\n* quatre")
	if got != "- un\n- deux\n1. trois\n- quatre" {
		t.Errorf("got %q", got)
	}
}

func TestBody_TableCaptionRemoved(t *testing.T) {
	got := body(t, newTestTranslator(), "||Légende|Résumé||\n| a | b |")
	if got != "| a | b |" {
		t.Errorf("got %q", got)
	}
}

func TestBody_Anchor(t *testing.T) {
	got := body(t, newTestTranslator(), "voir [le site->https://example.org]")
	if got != "voir [le site](https://example.org)" {
		t.Errorf("got %q", got)
	}
}

func TestBody_ObjectPlaceholders(t *testing.T) {
	got := body(t, newTestTranslator(), "<img12|left> et [doc->doc3] et <art4> et [->rub5] et [x->7]")
	want := "![](img12) et [doc](doc3) et [](art4) et [](rub5) et [x](art7)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBody_MarkdownImageReference(t *testing.T) {
	got := body(t, newTestTranslator(), "[logo](image8)")
	if got != "![logo](img8)" {
		t.Errorf("got %q", got)
	}
}

func TestBody_Footnotes(t *testing.T) {
	if got := body(t, newTestTranslator(), "texte[[une note]] suite"); got != "texte suite" {
		t.Errorf("drop: got %q", got)
	}
	inline := newTestTranslator(func(o *Options) { o.Footnotes = FootnotesInline })
	if got := body(t, inline, "texte[[une note]] suite"); got != "texte (une note) suite" {
		t.Errorf("inline: got %q", got)
	}
}

func TestBody_Wikilink(t *testing.T) {
	if got := body(t, newTestTranslator(), "[?SPIP]"); got != "[SPIP](https://wikipedia.org/wiki/SPIP)" {
		t.Errorf("got %q", got)
	}
	custom := newTestTranslator(func(o *Options) { o.WikiURL = "https://fr.wikipedia.org/wiki/%s" })
	if got := body(t, custom, "[?Jean Jaurès]"); got != "[Jean Jaurès](https://fr.wikipedia.org/wiki/Jean%20Jaur%C3%A8s)" {
		t.Errorf("custom: got %q", got)
	}
}

func TestBody_ResidualHTML(t *testing.T) {
	if got := body(t, newTestTranslator(), `<span class="x">texte</span>`); got != "texte" {
		t.Errorf("got %q", got)
	}
	keep := newTestTranslator(func(o *Options) { o.RemoveHTML = false })
	if got := body(t, keep, "<span>texte</span>"); got != "<span>texte</span>" {
		t.Errorf("kept: got %q", got)
	}
}

func TestBody_Idempotent(t *testing.T) {
	tr := newTestTranslator(func(o *Options) { o.Footnotes = FootnotesInline })
	inputs := []string{
		"{{{Titre}}}\nTexte",
		"un {{gras}} et {italique}",
		"avant\n----\naprès",
		"<quote>ligne un\nligne deux</quote>",
		"-* un\n- deux\n-# trois\n* quatre",
		"<img12|left> et [doc->doc3] et <art4> et [->rub5]",
		"voir [le site->https://example.org]",
		"texte[[une note]] suite",
		"<cadre>\nmake all\n</cadre>",
		"[?SPIP] et <code>x</code>",
	}
	for _, in := range inputs {
		once := body(t, tr, in)
		twice := body(t, tr, once)
		if once != twice {
			t.Errorf("not a fixed point for %q:\nfirst:  %q\nsecond: %q", in, once, twice)
		}
	}
}

func TestBody_Deterministic(t *testing.T) {
	tr := newTestTranslator()
	in := "{{{A}}}\n-* b\n[c->art1] {{d}} <img2>"
	if body(t, tr, in) != body(t, tr, in) {
		t.Error("same input produced different output")
	}
}

func TestMeta_TitleStripsDelimiters(t *testing.T) {
	got, err := newTestTranslator().Meta("  {{Ma Section}}  ")
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if got != "Ma Section" {
		t.Errorf("got %q, want %q", got, "Ma Section")
	}
}

func TestMeta_NoBlockRules(t *testing.T) {
	got, err := newTestTranslator().Meta("{{{Titre}}}\nsuite")
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if got != "Titre suite" {
		t.Errorf("got %q", got)
	}
}

func TestMeta_Bloat(t *testing.T) {
	got, err := newTestTranslator().Meta("> 1. Titre")
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if got != "Titre" {
		t.Errorf("got %q", got)
	}
}

func TestMeta_MarkupKept(t *testing.T) {
	tr := newTestTranslator(func(o *Options) { o.MetadataMarkup = true })
	got, err := tr.Meta("Voir {{ceci}} et [l'article->12]")
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if got != "Voir **ceci** et [l'article](art12)" {
		t.Errorf("got %q", got)
	}

	plain, err := newTestTranslator().Meta("Voir {{ceci}} et [l'article->12]")
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if plain != "Voir ceci et l'article" {
		t.Errorf("plain: got %q", plain)
	}
}

func TestField_DispatchesOnRole(t *testing.T) {
	tr := newTestTranslator()
	got, err := tr.Field(models.Field{Name: models.FieldTitle, Role: models.RoleMeta, Raw: "{{{T}}}"})
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if got != "T" {
		t.Errorf("meta field: got %q", got)
	}
	got, err = tr.Field(models.Field{Name: models.FieldBody, Role: models.RoleBody, Raw: "{{{T}}}"})
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if got != "## T" {
		t.Errorf("body field: got %q", got)
	}
}

func TestRules_Order(t *testing.T) {
	pos := make(map[string]int)
	for i, r := range newTestTranslator().Rules() {
		if _, dup := pos[r.Name]; dup {
			t.Fatalf("duplicate rule name %q", r.Name)
		}
		pos[r.Name] = i
	}
	before := [][2]string{
		{"heading", "bold"},
		{"bold-italic", "bold"},
		{"bold", "italic"},
		{"quote", "image-embed"},
		{"article-link", "anchor"},
		{"ordered-list", "bold"},
	}
	for _, p := range before {
		if pos[p[0]] >= pos[p[1]] {
			t.Errorf("rule %q must run before %q", p[0], p[1])
		}
	}
}
