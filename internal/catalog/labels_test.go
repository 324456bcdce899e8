package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLabels(t *testing.T) {
	assert.Equal(t, []string{"Writing", "Coding"}, SplitLabels(" Writing, ,Coding ,"))
	assert.Equal(t, []string{}, SplitLabels(""))
	assert.Equal(t, []string{"A", "A"}, SplitLabels("A,A"))
}

func TestJoinLabelsRoundTrip(t *testing.T) {
	labels := []string{"Writing", "Image Generation"}
	assert.Equal(t, labels, SplitLabels(JoinLabels(labels)))
}

func TestFacet(t *testing.T) {
	got := Facet([][]string{
		{"Writing", "Coding"},
		{"Coding", " Video "},
		nil,
		{"", "Writing"},
	})
	assert.Equal(t, []string{"Coding", "Video", "Writing"}, got)
}
