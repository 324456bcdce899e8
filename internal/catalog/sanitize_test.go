package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "<p>Hello, World!</p>",
			want:  "<p>Hello, World!</p>",
		},
		{
			name:  "script tag",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name:  "mixed case with attributes",
			input: `<p>a</p><SCRIPT SRC="evil.js"></SCRIPT><p>b</p>`,
			want:  "<p>a</p><p>b</p>",
		},
		{
			name:  "multiline body",
			input: "before<script>\nlet x = 1;\n</script>after",
			want:  "beforeafter",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeHTML(tc.input))
		})
	}
}
