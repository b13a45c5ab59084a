package urlnorm

import "strings"

const upperHex = "0123456789ABCDEF"

// safe[b] is b itself for bytes passed through, '+' for space, 0 otherwise.
var safe [256]byte

func init() {
	for i := 0; i < 256; i++ {
		b := byte(i)
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
			safe[i] = b
		case b == '*', b == '-', b == '.', b == '/', b == ':', b == '_':
			safe[i] = b
		case b == ' ':
			safe[i] = '+'
		}
	}
}

// PercentEncode escapes every byte outside the safe set as %XX.
func PercentEncode(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if s := safe[c]; s != 0 {
			sb.WriteByte(s)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperHex[c>>4])
		sb.WriteByte(upperHex[c&0x0f])
	}
	return sb.String()
}

// Canonical runs the local-link normalization steps on a link already known
// to be local: resolve against dir, sanitize, collapse dot-segments and
// percent-encode.
func Canonical(dir, link string) (string, error) {
	link, err := Sanitize(Resolve(dir, link))
	if err != nil {
		return "", err
	}
	if strings.Contains(link, "..") {
		link = CollapseDotSegments(link)
	}
	return PercentEncode(link), nil
}
