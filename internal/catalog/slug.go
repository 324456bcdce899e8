package catalog

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a post title.
// "GPT-4: A New Era!" -> "gpt-4-a-new-era".
// Titles differing only in punctuation or case map to the same slug.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
