// Package catalog defines the tool and blog post records and the pure logic around them:
// query building, slug derivation, editor drafts and list reconciliation.
package catalog

import (
	"time"

	"github.com/sushihentaime/toolshelf/internal/common"
)

// Resource is a titled link attached to a tool.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Tool struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Description is an HTML fragment.
	Description string     `json:"description"`
	Categories  []string   `json:"categories"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"image_url"`
	YoutubeURL  string     `json:"youtube_url"`
	Resources   []Resource `json:"resources"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Post struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	Author        string     `json:"author"`
	Categories    []string   `json:"categories"`
	Tags          []string   `json:"tags"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Record is anything the reconciler can match by store-assigned identifier.
type Record interface {
	RecordID() int
}

func (t Tool) RecordID() int { return t.ID }

func (p Post) RecordID() int { return p.ID }

// Principal is the caller of a write. Only administrators may mutate the catalog.
type Principal interface {
	IsAdmin() bool
}

type anonymous interface {
	IsAnonymous() bool
}

// Authorize rejects writes from missing, anonymous or non-admin principals.
func Authorize(p Principal) error {
	if p == nil {
		return common.ErrAuthRequired
	}

	if a, ok := p.(anonymous); ok && a.IsAnonymous() {
		return common.ErrAuthRequired
	}

	if !p.IsAdmin() {
		return common.ErrForbidden
	}

	return nil
}
