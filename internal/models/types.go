
package models

// LinkKind tags a link as local to the crawled host or external to it.
type LinkKind string

const (
	LinkLocal    LinkKind = "local"
	LinkExternal LinkKind = "external"
)

type Page struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	StatusCode  int    `json:"statusCode"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Link is an edge from a source page to a normalized target. External links
// are not bound to a source page, so SourceID is zero for them.
type Link struct {
	SourceID int64    `json:"sourceId,omitempty"`
	URL      string   `json:"url"`
	Kind     LinkKind `json:"kind"`
}

// Tag holds the joined heading text of one page in the index charset.
type Tag struct {
	PageID   int64  `json:"pageId"`
	Keywords []byte `json:"keywords"`
}

// Response is one fetched page as the engine sees it: raw header text plus a
// body already decoded to UTF-8.
type Response struct {
	URL    string `json:"url"`
	PageID int64  `json:"pageId,omitempty"`
	Header string `json:"header"`
	Body   string `json:"body"`
}

type Extraction struct {
	PageID      int64    `json:"pageId"`
	URL         string   `json:"url"`
	StatusCode  int      `json:"statusCode"`
	Redirect    string   `json:"redirect,omitempty"`
	HTML        bool     `json:"html"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        string   `json:"tags,omitempty"`
	Links       []Link   `json:"links,omitempty"`
	Rejected    int      `json:"rejected,omitempty"`
	Truncated   []string `json:"truncated,omitempty"`
}
