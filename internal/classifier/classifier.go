
package classifier

import (
	"regexp"
	"strconv"
)

// NoStatus is returned by StatusCode when the header has no status line.
const NoStatus = -1

var htmlRe = regexp.MustCompile(`(?i)text/html`)
var statusRe = regexp.MustCompile(`(?i)HTTP/1\S* (\d+)`)

// Result is what the fetch loop needs back from a response header.
type Result struct {
	StatusCode int
	HTML       bool
	Redirect   string
	// HasRedirect distinguishes an absent Location from an empty capture.
	HasRedirect bool
}

// Classify runs every header check for one response. host is the host being
// crawled and is matched literally in the Location header.
func Classify(header, host string) Result {
	r := Result{
		StatusCode: StatusCode(header),
		HTML:       IsHTML(header),
	}
	r.Redirect, r.HasRedirect = RedirectTarget(header, host)
	return r
}

func IsHTML(header string) bool {
	return htmlRe.MatchString(header)
}

// StatusCode returns the numeric status of the first HTTP/1.x status line.
func StatusCode(header string) int {
	m := statusRe.FindStringSubmatch(header)
	if m == nil {
		return NoStatus
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return NoStatus
	}
	return code
}

// RedirectTarget returns the path of a Location header pointing back at
// http://host. The target must start with '/', so a host that merely has
// host as a prefix does not match. Redirects to other hosts or schemes are
// not followed.
func RedirectTarget(header, host string) (string, bool) {
	if host == "" {
		return "", false
	}
	re, err := regexp.Compile(`(?i)Location: http://` + regexp.QuoteMeta(host) + `(/[^\r\n]*)`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	return m[1], true
}
