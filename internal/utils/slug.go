// internal/utils/slug.go
package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// DeriveSlug turns a display name into its URL key: lowercased, transliterated
// to ASCII, every run of separators collapsed to a single '-'. It has no
// side effects; uniqueness is checked by the slug registry.
func DeriveSlug(name string) string {
	s := slug.Make(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "_", "-")

	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' })
	return strings.Join(words, "-")
}
