package exporter

import (
	"errors"

	"github.com/starford/spip2md/internal/apperr"
	"github.com/starford/spip2md/internal/models"
)

// State is the progress of one node in one language pass.
type State int

const (
	StatePending State = iota
	StateTranslating
	StatePathResolved
	StateWritten
	StateSkipped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateTranslating:
		return "translating"
	case StatePathResolved:
		return "path-resolved"
	case StateWritten:
		return "written"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateWritten || s == StateSkipped || s == StateFailed
}

// Skip reason keys of Summary.Skipped.
const (
	ReasonLanguage = "language-not-found"
	ReasonDraft    = "draft"
	ReasonIgnored  = "ignored"
	ReasonEmpty    = "empty"
)

// Reason returns the Summary.Skipped key of a skip error.
func Reason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrLanguageNotFound):
		return ReasonLanguage
	case errors.Is(err, apperr.ErrDraftExcluded):
		return ReasonDraft
	case errors.Is(err, apperr.ErrIgnoredPattern):
		return ReasonIgnored
	case errors.Is(err, apperr.ErrEmptyExcluded):
		return ReasonEmpty
	default:
		return ""
	}
}

// Summary aggregates one run.
type Summary struct {
	Directories int // directories created
	Files       int // pages written and documents copied
	Pages       int
	Documents   int
	Skipped     map[string]int
	Failed      int
	Warnings    int
}

// SkippedTotal returns the number of skips of any reason.
func (s *Summary) SkippedTotal() int {
	n := 0
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Event reports one node reaching a terminal state in a pass. Documents are
// reported once, in the first pass their owner is written in.
type Event struct {
	Kind  models.Kind
	ID    int64
	Title string
	Lang  string
	Depth int
	// Index is the 1-based position among the siblings of the same kind.
	Index int
	Path  string
	State State
	Err   error
	// Warnings counts the link and asset warnings raised while writing.
	Warnings int
}

// Observer receives progress while a run writes files.
type Observer interface {
	PassStarted(lang string, nodes int)
	NodeDone(ev Event)
}
