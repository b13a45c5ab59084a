// Package store is the persistence sink for extracted pages, links and tags.
// Escaping for the storage format happens here and nowhere else.
package store

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Sink receives extraction output. Implementations must be safe for
// concurrent use; two workers may propose the same local link at once.
type Sink interface {
	SetTitle(ctx context.Context, pageID int64, title string) error
	SetDescription(ctx context.Context, pageID int64, text string) error
	// SetTags stores tag text already encoded in the index charset.
	SetTags(ctx context.Context, pageID int64, tags []byte) error
	// InsertUniqueLocalLink records url once, whichever page proposes it first.
	// sourceID must name a saved page.
	InsertUniqueLocalLink(ctx context.Context, sourceID int64, url string) error
	InsertExternalLink(ctx context.Context, url string) error
}

// PageStore assigns page ids to fetched URLs.
type PageStore interface {
	SavePage(ctx context.Context, url string, statusCode int) (int64, error)
	HasPage(ctx context.Context, id int64) (bool, error)
}

type Store interface {
	Sink
	PageStore
	Close() error
}

// escapeText makes s safe for a UTF-8 text column.
func escapeText(s string) string {
	s = strings.ToValidUTF8(s, "�")
	return strings.ReplaceAll(s, "\x00", "")
}
