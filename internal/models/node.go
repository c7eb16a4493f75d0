// Package models defines the domain types read from the SPIP content repository.
package models

import (
	"fmt"
	"time"
)

// Kind identifies the type of a content object. Values match the SPIP "objet"
// column of the *_liens link tables.
type Kind string

const (
	KindSection  Kind = "rubrique"
	KindArticle  Kind = "article"
	KindDocument Kind = "document"
)

// Status is the editorial status of a node.
type Status string

// StatusPublished is the only status considered non-draft.
const StatusPublished Status = "publie"

// Ref identifies one node of a given kind. IDs are only unique per kind.
type Ref struct {
	Kind Kind
	ID   int64
}

func (r Ref) String() string {
	return fmt.Sprintf("%s%d", r.Kind, r.ID)
}

// FieldRole tells the markup pipeline how a field is converted.
type FieldRole int

const (
	// RoleBody fields get the full block and inline rule set.
	RoleBody FieldRole = iota
	// RoleMeta fields end up in front matter and only get inline rules.
	RoleMeta
)

// Field is one raw markup field of a node, in conversion order.
type Field struct {
	Name string
	Role FieldRole
	Raw  string
}

// Field names shared by sections and articles.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldBody        = "body"
	FieldExtra       = "extra"
	FieldSurtitle    = "surtitle"
	FieldSubtitle    = "subtitle"
	FieldCaption     = "caption"
	FieldPostscript  = "postscript"
)

// ContentNode holds the fields shared by sections and articles.
type ContentNode struct {
	ID          int64
	ParentID    int64
	Title       string
	Description string
	Body        string
	Extra       string
	Status      Status
	Lang        string
	SectorID    int64
	CreatedAt   time.Time
	PublishedAt time.Time
	UpdatedAt   time.Time

	// TranslationGroup is 0 until an editor links translations together.
	TranslationGroup int64
}

// Draft reports whether the node is not published.
func (c *ContentNode) Draft() bool {
	return c.Status != StatusPublished
}

// TranslationKey returns the translation group, defaulting to the node's own ID.
func (c *ContentNode) TranslationKey() int64 {
	if c.TranslationGroup == 0 {
		return c.ID
	}
	return c.TranslationGroup
}

// Node is the capability set walked by the exporter.
type Node interface {
	HasTitle
	HasBody
	Ref() Ref
	Content() *ContentNode
}

// HasTitle is implemented by nodes carrying a raw markup title.
type HasTitle interface {
	RawTitle() string
}

// HasBody is implemented by nodes exposing their markup fields.
type HasBody interface {
	Fields() []Field
}

// HasChildren is implemented by nodes that own child nodes in the hierarchy.
type HasChildren interface {
	ParentOf(n Node) bool
}

// HasDocuments is implemented by nodes documents can be attached to.
type HasDocuments interface {
	DocumentOwner() Ref
}
