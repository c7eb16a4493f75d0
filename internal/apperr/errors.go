// Package apperr holds the error taxonomy shared by the export pipeline.
package apperr

import (
	"errors"
	"fmt"

	"github.com/starford/spip2md/internal/models"
)

var (
	// Node-scoped skip reasons.
	ErrLanguageNotFound = errors.New("language not found")
	ErrDraftExcluded    = errors.New("draft excluded")
	ErrIgnoredPattern   = errors.New("ignored pattern")
	ErrEmptyExcluded    = errors.New("empty excluded")

	// Node-scoped warnings and failures.
	ErrLinkTargetNotFound      = errors.New("link target not found")
	ErrAssetNotFound           = errors.New("asset not found")
	ErrWriteFailure            = errors.New("write failure")
	ErrUnknownEncodingArtifact = errors.New("unknown encoding artifact")
)

// NodeError ties a classified error to the node and language pass it happened in.
type NodeError struct {
	Ref  models.Ref
	Lang string
	Err  error
}

func (e *NodeError) Error() string {
	if e.Lang == "" {
		return fmt.Sprintf("%s: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Ref, e.Lang, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
