
// Package urlnorm classifies extracted link values and turns local ones into
// the canonical form stored in the link index.
package urlnorm

import (
	"errors"
	"strings"
)

type Kind int

const (
	Invalid Kind = iota
	Local
	External
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case External:
		return "external"
	default:
		return "invalid"
	}
}

// ErrRejectedLink is returned for links carrying characters that break
// re-consumption of stored links.
var ErrRejectedLink = errors.New("rejected link")

// Classify decides whether link points at the crawled host. Only values
// longer than four bytes can be external.
func Classify(link string) Kind {
	if link == "" {
		return Invalid
	}
	if link[0] != '/' && len(link) > 4 {
		head := link[:4]
		if strings.EqualFold(head, "http") || strings.EqualFold(head, "www.") {
			return External
		}
	}
	return Local
}

// Sanitize drops the fragment and query of link. Links containing '(' or ')'
// are rejected.
func Sanitize(link string) (string, error) {
	if strings.ContainsAny(link, "()") {
		return "", ErrRejectedLink
	}
	if i := strings.IndexAny(link, "#?"); i >= 0 {
		link = link[:i]
	}
	return link, nil
}

// CurrentDir returns the directory of pageURL as a host-absolute path,
// including the trailing slash. A scheme and host prefix is stripped, and so
// is any query or fragment, whose slashes are not path separators.
func CurrentDir(pageURL string) string {
	p := pageURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.Index(p, "://"); i >= 0 {
		rest := p[i+3:]
		j := strings.IndexByte(rest, '/')
		if j < 0 {
			return "/"
		}
		p = rest[j:]
	}
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "/"
	}
	return p[:i+1]
}

// Resolve joins a relative link onto dir. Host-absolute links are returned
// unchanged.
func Resolve(dir, link string) string {
	if strings.HasPrefix(link, "/") {
		return link
	}
	return dir + link
}

// CollapseDotSegments removes every "<segment>/.." pair from path. An ascent
// past the root is clamped: the ".." is dropped and nothing else consumed.
func CollapseDotSegments(path string) string {
	if strings.HasSuffix(path, "/..") {
		path += "/"
	}
	for {
		i := strings.Index(path, "/../")
		if i < 0 {
			return path
		}
		parent := strings.LastIndexByte(path[:i], '/')
		if parent < 0 {
			path = path[i+3:]
			continue
		}
		path = path[:parent] + path[i+3:]
	}
}
