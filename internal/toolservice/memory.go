package toolservice

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

// MemoryStore keeps tools in process. It evaluates queries exactly as ToolModel does in SQL.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int
	tools  []catalog.Tool
	err    error
}

func NewMemoryStore(seed ...catalog.Tool) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, t := range seed {
		s.insert(&t)
	}
	return s
}

// Fail makes every subsequent call return err, until called again with nil.
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

func cloneTool(t catalog.Tool) catalog.Tool {
	t.Categories = slices.Clone(t.Categories)
	t.Resources = slices.Clone(t.Resources)
	return t
}

func (s *MemoryStore) insert(t *catalog.Tool) {
	if t.ID == 0 {
		t.ID = s.nextID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if t.ID >= s.nextID {
		s.nextID = t.ID + 1
	}
	s.tools = append(s.tools, cloneTool(*t))
}

func (s *MemoryStore) Select(ctx context.Context, q catalog.Query) ([]catalog.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	out := []catalog.Tool{}
	for _, t := range s.tools {
		if q.MatchTool(t) {
			out = append(out, cloneTool(t))
		}
	}
	q.SortTools(out)

	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int) (*catalog.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	for _, t := range s.tools {
		if t.ID == id {
			t = cloneTool(t)
			return &t, nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (s *MemoryStore) Insert(ctx context.Context, t *catalog.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	t.ID = 0
	s.insert(t)

	return nil
}

func (s *MemoryStore) Update(ctx context.Context, id int, p catalog.ToolPatch) (*catalog.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	for i, t := range s.tools {
		if t.ID == id {
			s.tools[i] = cloneTool(p.Apply(t))
			updated := cloneTool(s.tools[i])
			return &updated, nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return false, s.err
	}

	for i, t := range s.tools {
		if t.ID == id {
			s.tools = slices.Delete(s.tools, i, i+1)
			return true, nil
		}
	}

	return false, nil
}

func (s *MemoryStore) CategoryLists(ctx context.Context) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	lists := make([][]string, 0, len(s.tools))
	for _, t := range s.tools {
		lists = append(lists, slices.Clone(t.Categories))
	}

	return lists, nil
}

func (s *MemoryStore) InsertBatch(ctx context.Context, tools []catalog.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	for i := range tools {
		tools[i].ID = 0
		s.insert(&tools[i])
	}

	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.tools = nil

	return nil
}
