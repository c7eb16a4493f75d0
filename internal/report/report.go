// Package report prints export progress and the final summary to a terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"

	"github.com/starford/spip2md/internal/exporter"
	"github.com/starford/spip2md/internal/models"
)

const maxTitleWidth = 40

var (
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	articleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	documentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// ColorsEnabled reports whether output may carry ANSI styling.
// It honours the NO_COLOR convention and dumb terminals.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// Printer writes one line per exported node. It implements exporter.Observer.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: ColorsEnabled()}
}

var _ exporter.Observer = (*Printer)(nil)

func (p *Printer) styled(text string, style lipgloss.Style) string {
	if p.color {
		return style.Render(text)
	}
	return text
}

// PassStarted announces a language pass.
func (p *Printer) PassStarted(lang string, nodes int) {
	line := fmt.Sprintf("Exporting %s nodes in %s", humanize.Comma(int64(nodes)), lang)
	fmt.Fprintln(p.w, p.styled(line, headerStyle))
}

// NodeDone prints "N. Title -> outcome", indented by depth.
func (p *Printer) NodeDone(ev exporter.Event) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", ev.Depth))
	fmt.Fprintf(&b, "%d. ", ev.Index)

	title := truncate(ev.Title, maxTitleWidth)
	if title == "" {
		title = "EMPTY NAME"
	}
	b.WriteString(p.styled(title, kindStyle(ev.Kind)))
	b.WriteString(" -> ")

	switch ev.State {
	case exporter.StateWritten:
		b.WriteString(p.styled(ev.Path, dimStyle))
	case exporter.StateSkipped:
		reason := exporter.Reason(ev.Err)
		if reason == "" && ev.Err != nil {
			reason = ev.Err.Error()
		}
		b.WriteString("SKIPPED " + reason)
	default:
		b.WriteString(p.styled("ERROR "+errText(ev.Err), warningStyle))
	}
	if ev.Warnings > 0 {
		b.WriteString(" " + p.styled(fmt.Sprintf("(%d %s)", ev.Warnings, plural(ev.Warnings, "warning")), warningStyle))
	}
	fmt.Fprintln(p.w, b.String())
}

// Summary prints the totals of a run.
func (p *Printer) Summary(sum *exporter.Summary) {
	fmt.Fprintln(p.w, SummaryLine(sum))

	var extra []string
	if n := sum.SkippedTotal(); n > 0 {
		extra = append(extra, fmt.Sprintf("%s skipped", humanize.Comma(int64(n))))
	}
	if sum.Failed > 0 {
		extra = append(extra, p.styled(fmt.Sprintf("%s failed", humanize.Comma(int64(sum.Failed))), warningStyle))
	}
	if sum.Warnings > 0 {
		extra = append(extra, p.styled(fmt.Sprintf("%s %s", humanize.Comma(int64(sum.Warnings)), plural(sum.Warnings, "warning")), warningStyle))
	}
	if len(extra) > 0 {
		fmt.Fprintln(p.w, strings.Join(extra, ", "))
	}
}

// SummaryLine is the one line report of a run.
func SummaryLine(sum *exporter.Summary) string {
	return fmt.Sprintf("Exported a total of %s files, stored into %s directories",
		humanize.Comma(int64(sum.Files)), humanize.Comma(int64(sum.Directories)))
}

func kindStyle(k models.Kind) lipgloss.Style {
	switch k {
	case models.KindSection:
		return sectionStyle
	case models.KindArticle:
		return articleStyle
	default:
		return documentStyle
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
