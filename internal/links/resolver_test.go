package links

import (
	"strings"
	"testing"

	"github.com/starford/spip2md/internal/models"
)

func testIndex() *Index {
	ix := NewIndex()
	art := models.Ref{Kind: models.KindArticle, ID: 4}
	ix.AddNode(art, "actus/intro", "Intro")
	ix.AddFile(art, "fr", "actus/intro/index.fr.md", "Intro")
	ix.AddFile(art, "en", "actus/intro/index.en.md", "Welcome")

	sec := models.Ref{Kind: models.KindSection, ID: 2}
	ix.AddNode(sec, "actus", "Actus")
	ix.AddFile(sec, "fr", "actus/_index.fr.md", "Actus")

	ix.AddDocument(12, "Logo", "actus/logo.png")
	ix.AddDocument(12, "Logo", "actus/intro/logo.png")
	ix.AddDocument(13, "", "actus/rapport.pdf")
	return ix
}

func resolve(t *testing.T, text, dir, lang string) (string, []Missing) {
	t.Helper()
	out, missing, err := NewResolver(testIndex()).Resolve(text, dir, lang)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return out, missing
}

func TestResolve_ArticleUsesLanguageFile(t *testing.T) {
	got, missing := resolve(t, "voir [](art4)", "actus", "en")
	if got != "voir [Welcome](intro/index.en.md)" {
		t.Errorf("got %q", got)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %+v", missing)
	}
}

func TestResolve_ExplicitLabelKept(t *testing.T) {
	got, _ := resolve(t, "[lire](art4)", "actus", "fr")
	if got != "[lire](intro/index.fr.md)" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_SectionFallsBackToFirstFile(t *testing.T) {
	got, _ := resolve(t, "[](rub2)", "actus/intro", "en")
	if got != "[Actus](../_index.fr.md)" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_DocumentPrefersLocalCopy(t *testing.T) {
	got, _ := resolve(t, "![](img12) [](doc13)", "actus/intro", "fr")
	if got != "![Logo](logo.png) [rapport.pdf](../rapport.pdf)" {
		t.Errorf("got %q", got)
	}
	got, _ = resolve(t, "![](img12)", "autre", "fr")
	if got != "![Logo](../actus/logo.png)" {
		t.Errorf("foreign dir: got %q", got)
	}
}

func TestResolve_MissingTarget(t *testing.T) {
	got, missing := resolve(t, "a [](art99) b ![x](img98)", "actus", "fr")
	if got != "a [](NOT FOUND) b ![x](NOT FOUND)" {
		t.Errorf("got %q", got)
	}
	if len(missing) != 2 {
		t.Fatalf("len(missing) = %d, want 2", len(missing))
	}
	if missing[0].Ref != (models.Ref{Kind: models.KindArticle, ID: 99}) || missing[0].Fragment != "[](art99)" {
		t.Errorf("missing[0] = %+v", missing[0])
	}
	if missing[1].Ref.Kind != models.KindDocument {
		t.Errorf("missing[1] = %+v", missing[1])
	}
}

func TestResolve_NoPlaceholderLeft(t *testing.T) {
	in := "[](art4) [](rub2) ![](img12) [](doc13) [](art5)"
	got, missing := resolve(t, in, "", "fr")
	if ok, _ := placeholder.MatchString(got); ok {
		t.Errorf("placeholder left in %q", got)
	}
	if !strings.Contains(got, NotFound) || len(missing) != 1 {
		t.Errorf("got %q, missing %+v", got, missing)
	}
}

func TestResolve_PlainTextUntouched(t *testing.T) {
	in := "[site](https://example.org) and [x](art)"
	got, missing := resolve(t, in, "actus", "fr")
	if got != in || len(missing) != 0 {
		t.Errorf("got %q, missing %+v", got, missing)
	}
}
