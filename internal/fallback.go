package internal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackFunc maps a path that no route matched to a handler name.
// An empty result means no candidate.
type FallbackFunc func(path string) string

// ConventionFallback derives handler names from the path segments:
// each segment is split on "-" and "_", title-cased and joined, and
// segments are joined with ".". The root path maps to "Index".
//
//	fb := ConventionFallback("web.")
//	fb("/admin/user-list") // "web.Admin.UserList"
//	fb("/")                // "web.Index"
func ConventionFallback(namespace string) FallbackFunc {
	return func(path string) string {
		title := cases.Title(language.Und)

		segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
		if len(segments) == 0 {
			return namespace + "Index"
		}

		parts := make([]string, 0, len(segments))
		for _, seg := range segments {
			words := strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' })
			if len(words) == 0 {
				continue
			}
			var b strings.Builder
			for _, w := range words {
				if !isWord(w) {
					return ""
				}
				b.WriteString(title.String(w))
			}
			parts = append(parts, b.String())
		}
		if len(parts) == 0 {
			return ""
		}
		return namespace + strings.Join(parts, ".")
	}
}

// isWord limits convention names to ASCII letters and digits so request
// paths cannot reach arbitrary registry names.
func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return s != ""
}
