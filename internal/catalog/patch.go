package catalog

import "time"

// ToolPatch is a partial update. Nil fields are left unchanged.
type ToolPatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Categories  *[]string   `json:"categories,omitempty"`
	URL         *string     `json:"url,omitempty"`
	ImageURL    *string     `json:"image_url,omitempty"`
	YoutubeURL  *string     `json:"youtube_url,omitempty"`
	Resources   *[]Resource `json:"resources,omitempty"`
}

func (p ToolPatch) Empty() bool {
	return p == ToolPatch{}
}

// Apply returns t with the patch applied.
func (p ToolPatch) Apply(t Tool) Tool {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Categories != nil {
		t.Categories = append([]string(nil), (*p.Categories)...)
	}
	if p.URL != nil {
		t.URL = *p.URL
	}
	if p.ImageURL != nil {
		t.ImageURL = *p.ImageURL
	}
	if p.YoutubeURL != nil {
		t.YoutubeURL = *p.YoutubeURL
	}
	if p.Resources != nil {
		t.Resources = append([]Resource(nil), (*p.Resources)...)
	}
	return t
}

// PostPatch is a partial update. Nil fields are left unchanged.
type PostPatch struct {
	Title         *string    `json:"title,omitempty"`
	Slug          *string    `json:"slug,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	Author        *string    `json:"author,omitempty"`
	Categories    *[]string  `json:"categories,omitempty"`
	Tags          *[]string  `json:"tags,omitempty"`
	Published     *bool      `json:"published,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	// UpdatedAt is always overwritten by the gateway with the time of the write.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Apply returns post with the patch applied. PublishedAt is only consulted when the patch publishes the post,
// and only fills a published_at that was never set.
func (p PostPatch) Apply(post Post) Post {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Slug != nil {
		post.Slug = *p.Slug
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.FeaturedImage != nil {
		post.FeaturedImage = *p.FeaturedImage
	}
	if p.Author != nil {
		post.Author = *p.Author
	}
	if p.Categories != nil {
		post.Categories = append([]string(nil), (*p.Categories)...)
	}
	if p.Tags != nil {
		post.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Published != nil {
		post.Published = *p.Published
		if post.Published && post.PublishedAt == nil && p.PublishedAt != nil {
			ts := *p.PublishedAt
			post.PublishedAt = &ts
		}
	}
	if p.UpdatedAt != nil {
		post.UpdatedAt = *p.UpdatedAt
	}
	return post
}
