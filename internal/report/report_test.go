package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/starford/spip2md/internal/apperr"
	"github.com/starford/spip2md/internal/exporter"
	"github.com/starford/spip2md/internal/models"
)

func TestNodeDone_Written(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.NodeDone(exporter.Event{
		Kind: models.KindArticle, Title: "Intro", Depth: 2, Index: 3,
		Path: "rub/intro/index.fr.md", State: exporter.StateWritten,
	})
	want := "    3. Intro -> rub/intro/index.fr.md\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestNodeDone_SkippedAndFailed(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.NodeDone(exporter.Event{Kind: models.KindSection, Title: "Rub", Index: 1,
		State: exporter.StateSkipped, Err: apperr.ErrDraftExcluded})
	p.NodeDone(exporter.Event{Kind: models.KindSection, Index: 2,
		State: exporter.StateFailed, Err: errors.New("disk full"), Warnings: 2})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "1. Rub -> SKIPPED draft" {
		t.Errorf("skipped line = %q", lines[0])
	}
	if lines[1] != "2. EMPTY NAME -> ERROR disk full (2 warnings)" {
		t.Errorf("failed line = %q", lines[1])
	}
}

func TestNodeDone_TruncatesTitle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	NewPrinter(&buf).NodeDone(exporter.Event{
		Kind: models.KindDocument, Title: strings.Repeat("é", 50), Index: 1, State: exporter.StateWritten,
	})
	if !strings.Contains(buf.String(), strings.Repeat("é", 39)+"… ->") {
		t.Errorf("got %q", buf.String())
	}
}

func TestSummary(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	sum := &exporter.Summary{
		Files: 1234, Directories: 56, Failed: 1, Warnings: 1,
		Skipped: map[string]int{exporter.ReasonDraft: 2, exporter.ReasonLanguage: 3},
	}
	NewPrinter(&buf).Summary(sum)
	want := "Exported a total of 1,234 files, stored into 56 directories\n5 skipped, 1 failed, 1 warning\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestSummary_Clean(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	NewPrinter(&buf).Summary(&exporter.Summary{Files: 3, Directories: 2, Skipped: map[string]int{}})
	if buf.String() != "Exported a total of 3 files, stored into 2 directories\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestColorsEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorsEnabled() {
		t.Error("NO_COLOR should disable colors")
	}
}
