package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/toolshelf/internal/common"
)

func TestToolDraftRoundTrip(t *testing.T) {
	tools := []Tool{
		{
			Name:        "Foo",
			URL:         "https://foo.test",
			Description: "<p>Foo does things</p>",
			ImageURL:    "https://foo.test/logo.png",
			YoutubeURL:  "https://youtube.com/watch?v=1",
			Categories:  []string{"Writing", "Coding"},
			Resources:   []Resource{{Title: "Docs", URL: "https://foo.test/docs"}, {Title: "Blog", URL: "https://foo.test/blog"}},
		},
		{
			Name:       "Bare",
			URL:        "https://bare.test",
			Categories: []string{},
			Resources:  []Resource{},
		},
	}

	for _, want := range tools {
		t.Run(want.Name, func(t *testing.T) {
			got, err := ToolDraftFrom(want).Tool()
			require.NoError(t, err)
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToolDraftResources(t *testing.T) {
	testCases := []struct {
		name      string
		resources string
		want      []Resource
		wantErr   bool
	}{
		{name: "empty", resources: "", want: []Resource{}},
		{name: "empty array", resources: "[]", want: []Resource{}},
		{name: "valid", resources: `[{"title":"Docs","url":"https://x.test"}]`, want: []Resource{{Title: "Docs", URL: "https://x.test"}}},
		{name: "not json", resources: "not json", wantErr: true},
		{name: "object instead of array", resources: `{"title":"Docs","url":"https://x.test"}`, wantErr: true},
		{name: "missing url", resources: `[{"title":"Docs"}]`, wantErr: true},
		{name: "unknown field", resources: `[{"title":"Docs","url":"u","rank":1}]`, wantErr: true},
		{name: "trailing data", resources: `[] []`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := ToolDraft{Name: "Foo", URL: "https://foo.test", Resources: tc.resources}

			tool, err := d.Tool()
			if tc.wantErr {
				var verr common.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, resourcesMessage, verr.Errors["resources"])

				_, err = d.Patch()
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, tool.Resources)
		})
	}
}

func TestToolDraftPatchSetsEveryField(t *testing.T) {
	d := ToolDraft{Name: " Foo ", URL: "https://foo.test", Categories: "Writing, Coding"}

	p, err := d.Patch()
	require.NoError(t, err)

	got := p.Apply(Tool{ID: 4, Name: "Old", Description: "old", ImageURL: "old.png"})
	assert.Equal(t, 4, got.ID)
	assert.Equal(t, "Foo", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, "", got.ImageURL)
	assert.Equal(t, []string{"Writing", "Coding"}, got.Categories)
}

func TestPostDraftSlug(t *testing.T) {
	t.Run("derived while creating", func(t *testing.T) {
		var d PostDraft
		d.SetTitle("GPT-4: A New Era!", true)
		assert.Equal(t, "gpt-4-a-new-era", d.Slug)

		d.SetTitle("GPT-4: A Newer Era", true)
		assert.Equal(t, "gpt-4-a-newer-era", d.Slug)
		assert.Equal(t, "gpt-4-a-newer-era", d.Post().Slug)
	})

	t.Run("manual override sticks", func(t *testing.T) {
		var d PostDraft
		d.SetTitle("First", true)
		d.SetSlug("custom-slug")
		d.SetTitle("Second", true)
		assert.Equal(t, "custom-slug", d.Slug)
		assert.Equal(t, "custom-slug", d.Post().Slug)
	})

	t.Run("not derived while editing", func(t *testing.T) {
		d := PostDraftFrom(Post{ID: 1, Title: "Old", Slug: "old"})
		d.SetTitle("New title", false)
		assert.Equal(t, "old", d.Slug)
	})

	t.Run("supplied slug is kept on submit", func(t *testing.T) {
		d := PostDraft{Title: "Hello World", Slug: " custom-slug "}
		assert.Equal(t, "custom-slug", d.Post().Slug)
	})

	t.Run("blank slug is derived on submit", func(t *testing.T) {
		d := PostDraft{Title: "Hello World", Slug: "  "}
		assert.Equal(t, "hello-world", d.Post().Slug)
	})

	t.Run("blank edited slug falls back to the title", func(t *testing.T) {
		d := PostDraft{Title: "Hello World", SlugEdited: true}
		assert.Equal(t, "hello-world", d.Post().Slug)
	})
}

func TestPostDraftRoundTrip(t *testing.T) {
	want := Post{
		Title:         "Hello",
		Slug:          "hello-there",
		Content:       "<p>body</p>",
		Excerpt:       "short",
		Author:        "Ada",
		FeaturedImage: "https://img.test/a.png",
		Categories:    []string{"News"},
		Tags:          []string{"ai", "llm"},
		Published:     true,
	}

	got := PostDraftFrom(want).Post()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPostDraftPatchKeepsSlugWhenBlank(t *testing.T) {
	d := PostDraft{Title: "New", Published: true}
	p := d.Patch()

	assert.Nil(t, p.Slug)
	got := p.Apply(Post{ID: 1, Title: "Old", Slug: "old"})
	assert.Equal(t, "old", got.Slug)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.Published)
}
