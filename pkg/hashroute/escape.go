package hashroute

import "net/url"

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether c falls outside the encodeURIComponent
// unreserved set.
func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}

// Escape percent-encodes s for use as a page key, variable key, or variable
// value. Every byte outside A-Z a-z 0-9 and -_.!~*'() becomes %XX, so the
// fragment separators "/", "&", "=" are always escaped.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
			continue
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// Unescape reverses Escape. It also accepts lowercase hex and unescaped
// characters that Escape would have encoded. "+" is kept as a literal plus.
func Unescape(s string) (string, error) {
	return url.PathUnescape(s)
}

// decodeField unescapes s, falling back to the raw text when s holds a
// malformed escape. The second result reports the fallback.
func decodeField(s string) (string, bool) {
	decoded, err := Unescape(s)
	if err != nil {
		return s, true
	}
	return decoded, false
}
