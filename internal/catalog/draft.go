package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/sushihentaime/toolshelf/internal/common"
)

// ToolDraft is the editor's view of a tool: list fields are plain text.
// Categories are comma separated and Resources is a JSON array of {title,url}.
type ToolDraft struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	YoutubeURL  string `json:"youtube_url"`
	Categories  string `json:"categories"`
	Resources   string `json:"resources"`
}

const resourcesMessage = "must be a valid JSON array of {title, url} objects"

// ToolDraftFrom fills a draft from a stored tool, for editing.
func ToolDraftFrom(t Tool) ToolDraft {
	d := ToolDraft{
		Name:        t.Name,
		URL:         t.URL,
		Description: t.Description,
		ImageURL:    t.ImageURL,
		YoutubeURL:  t.YoutubeURL,
		Categories:  JoinLabels(t.Categories),
		Resources:   "[]",
	}

	if len(t.Resources) > 0 {
		b, err := json.MarshalIndent(t.Resources, "", "  ")
		if err == nil {
			d.Resources = string(b)
		}
	}

	return d
}

// Tool converts the draft back to a record. An unparsable resources field is a validation error and
// nothing else about the draft is checked until it is fixed.
func (d ToolDraft) Tool() (Tool, error) {
	resources, err := ParseResources(d.Resources)
	if err != nil {
		return Tool{}, err
	}

	return Tool{
		Name:        strings.TrimSpace(d.Name),
		URL:         strings.TrimSpace(d.URL),
		Description: d.Description,
		ImageURL:    strings.TrimSpace(d.ImageURL),
		YoutubeURL:  strings.TrimSpace(d.YoutubeURL),
		Categories:  SplitLabels(d.Categories),
		Resources:   resources,
	}, nil
}

// Patch turns a saved edit form into an update of every editable field.
func (d ToolDraft) Patch() (ToolPatch, error) {
	t, err := d.Tool()
	if err != nil {
		return ToolPatch{}, err
	}

	return ToolPatch{
		Name:        &t.Name,
		Description: &t.Description,
		Categories:  &t.Categories,
		URL:         &t.URL,
		ImageURL:    &t.ImageURL,
		YoutubeURL:  &t.YoutubeURL,
		Resources:   &t.Resources,
	}, nil
}

// ParseResources parses the resources text field. Blank input is an empty list.
func ParseResources(s string) ([]Resource, error) {
	invalid := common.ValidationError{Errors: map[string]string{"resources": resourcesMessage}}

	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return []Resource{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()

	var resources []Resource
	if err := dec.Decode(&resources); err != nil {
		return nil, invalid
	}
	if dec.More() {
		return nil, invalid
	}

	for _, r := range resources {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.URL) == "" {
			return nil, invalid
		}
	}

	if resources == nil {
		resources = []Resource{}
	}

	return resources, nil
}

// PostDraft is the editor's view of a post. SlugEdited records that the editor typed a slug in this session,
// which stops SetTitle from deriving it.
type PostDraft struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	SlugEdited    bool   `json:"slug_edited"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	Author        string `json:"author"`
	FeaturedImage string `json:"featured_image"`
	Categories    string `json:"categories"`
	Tags          string `json:"tags"`
	Published     bool   `json:"published"`
}

func PostDraftFrom(p Post) PostDraft {
	return PostDraft{
		Title:         p.Title,
		Slug:          p.Slug,
		SlugEdited:    true,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		Author:        p.Author,
		FeaturedImage: p.FeaturedImage,
		Categories:    JoinLabels(p.Categories),
		Tags:          JoinLabels(p.Tags),
		Published:     p.Published,
	}
}

// SetTitle updates the title and, for a new post whose slug was not typed by hand, the slug.
func (d *PostDraft) SetTitle(title string, creating bool) {
	d.Title = title
	if creating && !d.SlugEdited {
		d.Slug = Slugify(title)
	}
}

// SetSlug records a manual slug override.
func (d *PostDraft) SetSlug(slug string) {
	d.Slug = slug
	d.SlugEdited = true
}

// Post converts the draft into a record for creation. A blank slug is derived from the title.
func (d PostDraft) Post() Post {
	slug := strings.TrimSpace(d.Slug)
	if slug == "" {
		slug = Slugify(d.Title)
	}

	return Post{
		Title:         strings.TrimSpace(d.Title),
		Slug:          slug,
		Excerpt:       strings.TrimSpace(d.Excerpt),
		Content:       d.Content,
		Author:        strings.TrimSpace(d.Author),
		FeaturedImage: strings.TrimSpace(d.FeaturedImage),
		Categories:    SplitLabels(d.Categories),
		Tags:          SplitLabels(d.Tags),
		Published:     d.Published,
	}
}

// Patch turns a saved edit form into an update. The slug never changes implicitly when editing:
// a blank slug leaves the stored one alone.
func (d PostDraft) Patch() PostPatch {
	title := strings.TrimSpace(d.Title)
	excerpt := strings.TrimSpace(d.Excerpt)
	author := strings.TrimSpace(d.Author)
	image := strings.TrimSpace(d.FeaturedImage)
	content := d.Content
	categories := SplitLabels(d.Categories)
	tags := SplitLabels(d.Tags)
	published := d.Published

	p := PostPatch{
		Title:         &title,
		Content:       &content,
		Excerpt:       &excerpt,
		FeaturedImage: &image,
		Author:        &author,
		Categories:    &categories,
		Tags:          &tags,
		Published:     &published,
	}

	if slug := strings.TrimSpace(d.Slug); slug != "" {
		p.Slug = &slug
	}

	return p
}
