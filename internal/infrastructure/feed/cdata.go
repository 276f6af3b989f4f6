package feed

import "strings"

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// CDATA wraps value in a CDATA section marker. It is a plain string formatter;
// documents built by Serializer carry real CDATA nodes instead.
func CDATA(value string) string {
	return cdataOpen + value + cdataClose
}

// UnwrapCDATA reverses CDATA. The second result is false when s is not wrapped.
func UnwrapCDATA(s string) (string, bool) {
	if !strings.HasPrefix(s, cdataOpen) || !strings.HasSuffix(s, cdataClose) || len(s) < len(cdataOpen)+len(cdataClose) {
		return "", false
	}
	return s[len(cdataOpen) : len(s)-len(cdataClose)], true
}

// cdataSafe reports whether value can be carried by a single CDATA section
func cdataSafe(value string) bool {
	return !strings.Contains(value, cdataClose)
}
