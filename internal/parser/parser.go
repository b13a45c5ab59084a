
// Package parser pulls the title, description and heading tags out of raw
// page markup with single-pass pattern matching. No document tree is built,
// so nested <title> tags or self-closing headings are not handled.
package parser

import (
	"regexp"
	"strings"
)

// DefaultMaxFieldLength caps every extracted field.
const DefaultMaxFieldLength = 64 << 10

// TagSeparator joins heading texts in the tag field.
const TagSeparator = " | "

const descriptionMarker = "DESCRIPTION\n"

// descriptionIndent is the exact indentation of a description continuation line.
const descriptionIndent = "       "

var h1Re = regexp.MustCompile(`(?i)<h1[^>]*>([^<\r\n]*)[^<]*</h1>`)

type Parser struct {
	maxFieldLength int
}

func New(maxFieldLength int) *Parser {
	if maxFieldLength <= 0 {
		maxFieldLength = DefaultMaxFieldLength
	}
	return &Parser{maxFieldLength: maxFieldLength}
}

// Fields holds the best-effort result of one extraction pass. Absent fields
// are empty with their Has flag false.
type Fields struct {
	Title          string
	Description    string
	HasDescription bool
	Tags           string
	HasTags        bool
	// Truncated names the fields cut at the length cap.
	Truncated []string
}

func (p *Parser) Extract(body string) Fields {
	var f Fields
	var cut bool

	f.Title, cut = p.clip(Title(body))
	if cut {
		f.Truncated = append(f.Truncated, "title")
	}
	if d, ok := Description(body); ok {
		f.Description, cut = p.clip(d)
		f.HasDescription = true
		if cut {
			f.Truncated = append(f.Truncated, "description")
		}
	}
	if tags, ok := Tags(body); ok {
		f.Tags, cut = p.clip(tags)
		f.HasTags = true
		if cut {
			f.Truncated = append(f.Truncated, "tags")
		}
	}
	return f
}

// clip shortens s to the field cap without splitting a UTF-8 sequence.
func (p *Parser) clip(s string) (string, bool) {
	if len(s) <= p.maxFieldLength {
		return s, false
	}
	n := p.maxFieldLength
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n], true
}

// Title returns the text between the first <title> and </title> markers,
// matched in lower or upper case only.
func Title(body string) string {
	start := strings.Index(body, "<title>")
	if start < 0 {
		start = strings.Index(body, "<TITLE>")
	}
	end := strings.Index(body, "</title>")
	if end < 0 {
		end = strings.Index(body, "</TITLE>")
	}
	if start < 0 || end < 0 || end < start+7 {
		return ""
	}
	return body[start+7 : end]
}

// Description reads the block following a "DESCRIPTION" line in which every
// line is indented by seven spaces, as in man-page style headers
// embedded in served documents. Blank lines are skipped, any other line ends
// the block.
func Description(body string) (string, bool) {
	i := strings.Index(body, descriptionMarker)
	if i < 0 {
		return "", false
	}
	pos := i + len(descriptionMarker)
	var sb strings.Builder
	for pos < len(body) {
		nl := strings.IndexByte(body[pos:], '\n')
		if nl < 0 {
			break
		}
		line := body[pos : pos+nl]
		if line == "" || line == "\r" {
			pos += nl + 1
			continue
		}
		if !strings.HasPrefix(line, descriptionIndent) {
			break
		}
		sb.WriteString(strings.TrimSuffix(line[len(descriptionIndent):], "\r"))
		pos += nl + 1
	}
	if sb.Len() == 0 {
		return "", false
	}
	return strings.Map(func(r rune) rune {
		if r == '\'' || r == '"' {
			return ' '
		}
		return r
	}, sb.String()), true
}

// Tags joins the text of every <h1> heading in document order.
func Tags(body string) (string, bool) {
	var tags []string
	for _, m := range h1Re.FindAllStringSubmatch(body, -1) {
		if m[1] != "" {
			tags = append(tags, m[1])
		}
	}
	if len(tags) == 0 {
		return "", false
	}
	return strings.Join(tags, TagSeparator), true
}
