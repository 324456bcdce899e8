package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		title string
		want  string
	}{
		{title: "GPT-4: A New Era!", want: "gpt-4-a-new-era"},
		{title: "  leading/trailing  ", want: "leading-trailing"},
		{title: "Hello, World", want: "hello-world"},
		{title: "hello world", want: "hello-world"},
		{title: "---", want: ""},
		{title: "", want: ""},
		{title: "Café au lait", want: "caf-au-lait"},
		{title: "Top 10 AI tools (2024)", want: "top-10-ai-tools-2024"},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}

func TestSlugifyCollides(t *testing.T) {
	assert.Equal(t, Slugify("Hello, World!"), Slugify("hello world"))
}
