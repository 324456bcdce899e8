package catalog

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// SanitizeHTML removes script elements from rich-text fields before they are stored.
func SanitizeHTML(markup string) string {
	return scriptTagPattern.ReplaceAllString(markup, "")
}
