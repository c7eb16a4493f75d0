package models

import "time"

// Section is a SPIP "rubrique": a node that contains sections, articles and documents.
type Section struct {
	ContentNode
	Depth int
}

func (s *Section) Ref() Ref { return Ref{Kind: KindSection, ID: s.ID} }
func (s *Section) Content() *ContentNode { return &s.ContentNode }
func (s *Section) RawTitle() string { return s.Title }
func (s *Section) DocumentOwner() Ref { return s.Ref() }

// ParentOf reports whether n sits directly under this section.
func (s *Section) ParentOf(n Node) bool {
	return n.Content().ParentID == s.ID
}

// Fields returns the section's markup fields in conversion order.
func (s *Section) Fields() []Field {
	return []Field{
		{Name: FieldTitle, Role: RoleMeta, Raw: s.Title},
		{Name: FieldDescription, Role: RoleMeta, Raw: s.Description},
		{Name: FieldBody, Role: RoleBody, Raw: s.Body},
		{Name: FieldExtra, Role: RoleBody, Raw: s.Extra},
	}
}

// Article is a leaf of the section hierarchy. ParentID is its section.
type Article struct {
	ContentNode
	Surtitle         string
	Subtitle         string
	Caption          string
	Postscript       string
	AcceptDiscussion bool
	RedactedAt       time.Time

	// Authors keep the order returned by the link query.
	Authors []Author
}

func (a *Article) Ref() Ref { return Ref{Kind: KindArticle, ID: a.ID} }
func (a *Article) Content() *ContentNode { return &a.ContentNode }
func (a *Article) RawTitle() string { return a.Title }
func (a *Article) DocumentOwner() Ref { return a.Ref() }

// Fields returns the article's markup fields in conversion order.
func (a *Article) Fields() []Field {
	return []Field{
		{Name: FieldTitle, Role: RoleMeta, Raw: a.Title},
		{Name: FieldSurtitle, Role: RoleMeta, Raw: a.Surtitle},
		{Name: FieldSubtitle, Role: RoleMeta, Raw: a.Subtitle},
		{Name: FieldDescription, Role: RoleMeta, Raw: a.Description},
		{Name: FieldCaption, Role: RoleMeta, Raw: a.Caption},
		{Name: FieldBody, Role: RoleBody, Raw: a.Body},
		{Name: FieldPostscript, Role: RoleBody, Raw: a.Postscript},
		{Name: FieldExtra, Role: RoleBody, Raw: a.Extra},
	}
}

// MediaKind is the SPIP media classification of a document.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaFile  MediaKind = "file"
	MediaEmbed MediaKind = "embed"
)

// Document is a file attached to sections or articles.
type Document struct {
	ID          int64
	Title       string
	Description string
	File        string // relative to the configured asset directory
	Media       MediaKind
	ThumbnailID int64
	Status      Status
	PublishedAt time.Time
}

func (d *Document) Ref() Ref { return Ref{Kind: KindDocument, ID: d.ID} }

// Author is a SPIP "auteur" linked to an article.
type Author struct {
	ID     int64
	Name   string
	Login  string
	Status string
}

var (
	_ Node         = (*Section)(nil)
	_ Node         = (*Article)(nil)
	_ HasChildren  = (*Section)(nil)
	_ HasDocuments = (*Section)(nil)
	_ HasDocuments = (*Article)(nil)
)
