// Package source reads the SPIP content tree. It never writes to the database.
package source

import (
	"context"

	"github.com/starford/spip2md/internal/models"
)

// Repository is the read-only view of a SPIP site used by the exporter.
// Sections and articles come back by descending date, then ascending id.
type Repository interface {
	RootSections(ctx context.Context) ([]*models.Section, error)
	ChildSections(ctx context.Context, parentID int64) ([]*models.Section, error)
	Articles(ctx context.Context, sectionID int64) ([]*models.Article, error)
	Documents(ctx context.Context, owner models.Ref) ([]*models.Document, error)
	Authors(ctx context.Context, articleID int64) ([]models.Author, error)
}

// Verify *SQL satisfies Repository at compile time.
var _ Repository = (*SQL)(nil)
