package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

func NewBlogService(db *sql.DB, cache *common.Cache, mb common.MessageProducer, logger *slog.Logger) *BlogService {
	return NewBlogServiceWithStore(NewPostModel(db), cache, mb, logger)
}

// NewBlogServiceWithStore builds the service on any Store, typically a MemoryStore.
func NewBlogServiceWithStore(store Store, cache *common.Cache, mb common.MessageProducer, logger *slog.Logger) *BlogService {
	if mb == nil {
		mb = common.DiscardProducer{}
	}

	return &BlogService{
		store:  store,
		c:      cache,
		mb:     mb,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// wrap keeps the errors callers branch on and tags everything else as a store failure.
func wrap(op string, err error) error {
	if errors.Is(err, ErrDuplicateSlug) {
		return ErrDuplicateSlug
	}
	return common.WrapStore(op, err)
}

// List returns the posts matching f. Drafts are only included when f.Published asks for them.
func (s *BlogService) List(ctx context.Context, f catalog.Filter) ([]catalog.Post, error) {
	return s.Select(ctx, catalog.BuildPostQuery(f))
}

func (s *BlogService) Select(ctx context.Context, q catalog.Query) ([]catalog.Post, error) {
	posts, err := s.store.Select(ctx, q)
	if err != nil {
		return nil, wrap("select posts", err)
	}

	return posts, nil
}

// Get returns a post by its ID.
func (s *BlogService) Get(ctx context.Context, id int) (*catalog.Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrap("get post", err)
	}

	return p, nil
}

// GetBySlug returns the post published under slug.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*catalog.Post, error) {
	slug = strings.TrimSpace(slug)

	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, wrap("get post by slug", err)
	}

	return p, nil
}

func (s *BlogService) Categories(ctx context.Context) ([]string, error) {
	return s.facet(ctx, common.CacheKeyPostCategories)
}

func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	return s.facet(ctx, common.CacheKeyPostTags)
}

func (s *BlogService) facet(ctx context.Context, key string) ([]string, error) {
	if cached, ok := s.c.Get(key); ok {
		return slices.Clone(cached.([]string)), nil
	}

	gen := s.c.Generation()
	categories, tags, err := s.store.LabelLists(ctx)
	if err != nil {
		return nil, wrap("list post labels", err)
	}

	facets := map[string][]string{
		common.CacheKeyPostCategories: catalog.Facet(categories),
		common.CacheKeyPostTags:       catalog.Facet(tags),
	}
	for k, v := range facets {
		s.c.Fill(gen, k, v)
	}

	return slices.Clone(facets[key]), nil
}

// Create stores a new post. A published post without a publication time is stamped with the time of the write.
func (s *BlogService) Create(ctx context.Context, pr catalog.Principal, p catalog.Post) (*catalog.Post, error) {
	if err := catalog.Authorize(pr); err != nil {
		return nil, err
	}

	p = normalizePost(p)

	v := common.NewValidator()
	validatePost(v, p)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	switch {
	case !p.Published:
		p.PublishedAt = nil
	case p.PublishedAt == nil:
		p.PublishedAt = &now
	}

	if err := s.store.Insert(ctx, &p); err != nil {
		return nil, wrap("insert post", err)
	}

	s.changed(ctx, catalog.PostEvent(common.PostCreatedKey, p, now))
	if p.Published {
		s.announce(ctx, catalog.PostEvent(common.PostPublishedKey, p, now))
	}

	return &p, nil
}

// Update changes the fields set in patch. updated_at always moves to the time of the write, and published_at is
// set by the first publish only.
func (s *BlogService) Update(ctx context.Context, pr catalog.Principal, id int, patch catalog.PostPatch) (*catalog.Post, error) {
	if err := catalog.Authorize(pr); err != nil {
		return nil, err
	}

	patch = normalizePatch(patch)

	v := common.NewValidator()
	validateInt(v, id, "id")
	validatePatch(v, patch)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	now := s.now()
	patch.UpdatedAt = &now

	publishing := patch.Published != nil && *patch.Published
	if publishing && patch.PublishedAt == nil {
		patch.PublishedAt = &now
	}

	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, wrap("update post", err)
	}

	s.changed(ctx, catalog.PostEvent(common.PostUpdatedKey, *p, now))
	if publishing && p.PublishedAt != nil && p.PublishedAt.Equal(*patch.PublishedAt) {
		s.announce(ctx, catalog.PostEvent(common.PostPublishedKey, *p, now))
	}

	return p, nil
}

// Delete removes a post. Deleting an ID that does not exist reports false and no error.
func (s *BlogService) Delete(ctx context.Context, pr catalog.Principal, id int) (bool, error) {
	if err := catalog.Authorize(pr); err != nil {
		return false, err
	}

	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return false, v.ValidationError()
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, wrap("delete post", err)
	}

	if deleted {
		s.changed(ctx, catalog.Event{Kind: common.PostDeletedKey, ID: id, At: s.now()})
	}

	return deleted, nil
}

// changed runs after every committed write.
func (s *BlogService) changed(ctx context.Context, ev catalog.Event) {
	s.c.Invalidate(common.CacheKeyPostCategories, common.CacheKeyPostTags)
	s.announce(ctx, ev)
}

func (s *BlogService) announce(ctx context.Context, ev catalog.Event) {
	if err := catalog.Publish(ctx, s.mb, ev); err != nil {
		s.logger.Error("could not publish post event", slog.String("kind", string(ev.Kind)), slog.Int("id", ev.ID), slog.String("error", err.Error()))
	}
}

func normalizePost(p catalog.Post) catalog.Post {
	p.ID = 0
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = catalog.Slugify(p.Title)
	}
	p.Content = catalog.SanitizeHTML(p.Content)
	p.Excerpt = strings.TrimSpace(p.Excerpt)
	p.Author = strings.TrimSpace(p.Author)
	p.FeaturedImage = strings.TrimSpace(p.FeaturedImage)
	p.Categories = catalog.NormalizeLabels(p.Categories)
	p.Tags = catalog.NormalizeLabels(p.Tags)
	return p
}

func normalizePatch(p catalog.PostPatch) catalog.PostPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}

	p.Title = trim(p.Title)
	p.Slug = trim(p.Slug)
	p.Excerpt = trim(p.Excerpt)
	p.Author = trim(p.Author)
	p.FeaturedImage = trim(p.FeaturedImage)

	if p.Content != nil {
		c := catalog.SanitizeHTML(*p.Content)
		p.Content = &c
	}
	if p.Categories != nil {
		c := catalog.NormalizeLabels(*p.Categories)
		p.Categories = &c
	}
	if p.Tags != nil {
		t := catalog.NormalizeLabels(*p.Tags)
		p.Tags = &t
	}
	// Callers cannot move updated_at.
	p.UpdatedAt = nil

	return p
}
