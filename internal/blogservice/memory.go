package blogservice

import (
	"context"
	"slices"
	"sync"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

// MemoryStore keeps posts in process. It evaluates queries exactly as PostModel does in SQL
// and enforces slug uniqueness like the blog_posts_slug_key index.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int
	posts  []catalog.Post
	err    error
}

func NewMemoryStore(seed ...catalog.Post) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, p := range seed {
		s.insert(&p)
	}
	return s
}

// Fail makes every subsequent call return err, until called again with nil.
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

func clonePost(p catalog.Post) catalog.Post {
	p.Categories = slices.Clone(p.Categories)
	p.Tags = slices.Clone(p.Tags)
	if p.PublishedAt != nil {
		ts := *p.PublishedAt
		p.PublishedAt = &ts
	}
	return p
}

func (s *MemoryStore) insert(p *catalog.Post) {
	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	s.posts = append(s.posts, clonePost(*p))
}

func (s *MemoryStore) slugTaken(slug string, except int) bool {
	for _, p := range s.posts {
		if p.Slug == slug && p.ID != except {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Select(ctx context.Context, q catalog.Query) ([]catalog.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	out := []catalog.Post{}
	for _, p := range s.posts {
		if q.MatchPost(p) {
			out = append(out, clonePost(p))
		}
	}
	q.SortPosts(out)

	return out, nil
}

func (s *MemoryStore) find(match func(catalog.Post) bool) (*catalog.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	for _, p := range s.posts {
		if match(p) {
			p = clonePost(p)
			return &p, nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (s *MemoryStore) Get(ctx context.Context, id int) (*catalog.Post, error) {
	return s.find(func(p catalog.Post) bool { return p.ID == id })
}

func (s *MemoryStore) GetBySlug(ctx context.Context, slug string) (*catalog.Post, error) {
	return s.find(func(p catalog.Post) bool { return p.Slug == slug })
}

func (s *MemoryStore) Insert(ctx context.Context, p *catalog.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	if s.slugTaken(p.Slug, 0) {
		return ErrDuplicateSlug
	}

	p.ID = 0
	s.insert(p)

	return nil
}

func (s *MemoryStore) Update(ctx context.Context, id int, patch catalog.PostPatch) (*catalog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	for i, p := range s.posts {
		if p.ID != id {
			continue
		}

		updated := patch.Apply(p)
		if s.slugTaken(updated.Slug, id) {
			return nil, ErrDuplicateSlug
		}

		s.posts[i] = clonePost(updated)
		updated = clonePost(updated)
		return &updated, nil
	}

	return nil, common.ErrRecordNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return false, s.err
	}

	for i, p := range s.posts {
		if p.ID == id {
			s.posts = slices.Delete(s.posts, i, i+1)
			return true, nil
		}
	}

	return false, nil
}

func (s *MemoryStore) LabelLists(ctx context.Context) ([][]string, [][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, nil, s.err
	}

	var categories, tags [][]string
	for _, p := range s.posts {
		categories = append(categories, slices.Clone(p.Categories))
		tags = append(tags, slices.Clone(p.Tags))
	}

	return categories, tags, nil
}
