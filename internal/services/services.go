package services

import (
	"context"
)

// RecordSource defines the operations topspin needs from the album page database.
type RecordSource interface {
	// FetchAll retrieves every page of the configured album database, transparently
	// following cursor pagination and preserving the database's fetch order.
	FetchAll(ctx context.Context) ([]Page, error)

	// UpdateRank writes an album's title and rank select label back to its page.
	UpdateRank(ctx context.Context, pageID, name, label string) error

	// UpdateMedia sets a page's external cover and/or icon URLs.
	// Empty URLs are left untouched; both empty is a no-op.
	UpdateMedia(ctx context.Context, pageID, coverURL, iconURL string) error

	// RebuildRankOptions replaces the rank property's select options with exactly
	// the given labels, dropping any option no longer in use.
	RebuildRankOptions(ctx context.Context, labels []string) error

	// Name returns the name of the service (e.g., "Notion")
	Name() string
}

// ArtworkSource defines the artwork search operations used by the enricher.
type ArtworkSource interface {
	// Authenticate performs the client-credential exchange with the service.
	Authenticate(ctx context.Context) error

	// SearchAlbum searches for an album by name and artist. An empty artist
	// searches by album name alone.
	// Returns nil without error when the service has no match.
	SearchAlbum(ctx context.Context, album, artist string) (*ArtworkMatch, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// ArtworkMatch is the zero-or-one result of an artwork search.
//
// CoverURL is the largest image the service returned and IconURL the smallest,
// following the API's own largest-first image ordering.
type ArtworkMatch struct {
	AlbumName  string
	ArtistName string
	CoverURL   string
	IconURL    string
}

// Page represents one raw page record from the album database.
type Page struct {
	ID         string                  `json:"id"`
	Cover      *FileRef                `json:"cover"`
	Icon       *FileRef                `json:"icon"`
	Properties map[string]PageProperty `json:"properties"`
}

// PageProperty is a tagged union over the property shapes the catalog consumes:
// title, select, and status. Exactly one of the variant fields is populated,
// per the Type discriminator.
type PageProperty struct {
	Type   string        `json:"type"`
	Title  []RichText    `json:"title,omitempty"`
	Select *SelectOption `json:"select,omitempty"`
	Status *SelectOption `json:"status,omitempty"`
}

// RichText is one segment of a title property.
type RichText struct {
	PlainText string       `json:"plain_text"`
	Text      *TextContent `json:"text,omitempty"`
}

// TextContent holds the text payload of a rich text segment.
type TextContent struct {
	Content string `json:"content"`
}

// SelectOption is the chosen option of a select or status property.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// FileRef is a page cover or icon reference.
type FileRef struct {
	Type     string        `json:"type"`
	External *ExternalFile `json:"external,omitempty"`
}

// ExternalFile is an externally hosted file URL.
type ExternalFile struct {
	URL string `json:"url"`
}
