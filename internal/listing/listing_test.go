package listing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/toolshelf/internal/catalog"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// gatedFetcher blocks each query until the test releases it, so responses can be delivered out of order.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan result
	started chan string
}

type result struct {
	items []catalog.Tool
	err   error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan result), started: make(chan string, 10)}
}

func (f *gatedFetcher) gate(search string) chan result {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.gates[search]
	if !ok {
		ch = make(chan result, 1)
		f.gates[search] = ch
	}
	return ch
}

func (f *gatedFetcher) fetch(ctx context.Context, q catalog.Query) ([]catalog.Tool, error) {
	ch := f.gate(q.Search)
	f.started <- q.Search
	r := <-ch
	return r.items, r.err
}

func TestLatestRequestWins(t *testing.T) {
	f := newGatedFetcher()
	l := New(f.fetch, discardLogger())

	qa := catalog.BuildToolQuery(catalog.Filter{Search: "a"})
	qb := catalog.BuildToolQuery(catalog.Filter{Search: "b"})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, l.Refresh(context.Background(), qa))
	}()
	require.Equal(t, "a", <-f.started)

	go func() {
		defer wg.Done()
		assert.NoError(t, l.Refresh(context.Background(), qb))
	}()
	require.Equal(t, "b", <-f.started)

	// B resolves before A.
	f.gate("b") <- result{items: []catalog.Tool{{ID: 2, Name: "b"}}}
	f.gate("a") <- result{items: []catalog.Tool{{ID: 1, Name: "a"}}}
	wg.Wait()

	snap := l.Snapshot()
	assert.Equal(t, Ready, snap.Status)
	assert.Equal(t, []catalog.Tool{{ID: 2, Name: "b"}}, snap.Items)
	if diff := cmp.Diff(qb, snap.Query); diff != "" {
		t.Errorf("active query mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOutOfOrder(t *testing.T) {
	l := New[catalog.Tool](nil, discardLogger())

	ta := l.Begin(catalog.BuildToolQuery(catalog.Filter{Category: "Writing"}))
	tb := l.Begin(catalog.BuildToolQuery(catalog.Filter{Category: "Coding"}))

	assert.True(t, l.Resolve(tb, []catalog.Tool{{ID: 2}}, nil))
	assert.False(t, l.Resolve(ta, []catalog.Tool{{ID: 1}}, nil))
	assert.Equal(t, []catalog.Tool{{ID: 2}}, l.Items())

	// A stale failure must not clobber the applied result either.
	tc := l.Begin(catalog.BuildToolQuery(catalog.Filter{}))
	td := l.Begin(catalog.BuildToolQuery(catalog.Filter{Search: "x"}))
	assert.True(t, l.Resolve(td, []catalog.Tool{{ID: 4}}, nil))
	assert.False(t, l.Resolve(tc, nil, errors.New("timeout")))
	assert.Equal(t, Ready, l.Status())
	assert.Equal(t, []catalog.Tool{{ID: 4}}, l.Items())
}

func TestStatusLifecycle(t *testing.T) {
	l := New[catalog.Tool](nil, discardLogger())
	assert.Equal(t, Loading, l.Status())

	tk := l.Begin(catalog.Query{})
	assert.Equal(t, Loading, l.Status())

	l.Resolve(tk, []catalog.Tool{{ID: 1}}, nil)
	assert.Equal(t, Ready, l.Status())

	tk = l.Begin(catalog.Query{})
	assert.Equal(t, Loading, l.Status())
	assert.Equal(t, []catalog.Tool{{ID: 1}}, l.Items(), "previous items stay visible while loading")
}

func TestFetchErrorEmptiesList(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	fetch := func(ctx context.Context, q catalog.Query) ([]catalog.Tool, error) {
		calls++
		if calls == 1 {
			return []catalog.Tool{{ID: 1}}, nil
		}
		return []catalog.Tool{{ID: 99}}, boom
	}

	l := New(fetch, discardLogger())
	require.NoError(t, l.Refresh(context.Background(), catalog.Query{}))
	assert.Len(t, l.Items(), 1)

	err := l.Refresh(context.Background(), catalog.Query{})
	assert.ErrorIs(t, err, boom)

	snap := l.Snapshot()
	assert.Equal(t, Error, snap.Status)
	assert.Empty(t, snap.Items)
	assert.ErrorIs(t, snap.Err, boom)

	l.Begin(catalog.Query{})
	snap = l.Snapshot()
	assert.Equal(t, Loading, snap.Status)
	assert.NoError(t, snap.Err, "a new request clears the previous failure")

	// Manual retry recovers.
	calls = 0
	require.NoError(t, l.Refresh(context.Background(), catalog.Query{}))
	assert.Equal(t, Ready, l.Status())
}

func TestApply(t *testing.T) {
	l := New[catalog.Tool](nil, discardLogger())
	l.Resolve(l.Begin(catalog.Query{}), []catalog.Tool{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, nil)

	l.Apply(catalog.Tool{ID: 3, Name: "c"}, catalog.OpCreate)
	l.Apply(catalog.Tool{ID: 1, Name: "a2"}, catalog.OpUpdate)
	l.Apply(catalog.Tool{ID: 2}, catalog.OpDelete)
	l.Apply(catalog.Tool{ID: 42, Name: "filtered out"}, catalog.OpUpdate)

	assert.Equal(t, []catalog.Tool{{ID: 1, Name: "a2"}, {ID: 3, Name: "c"}}, l.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	l := New[catalog.Tool](nil, discardLogger())
	l.Resolve(l.Begin(catalog.Query{}), []catalog.Tool{{ID: 1, Name: "a"}}, nil)

	items := l.Items()
	items[0].Name = "mutated"

	assert.Equal(t, "a", l.Items()[0].Name)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "ready", Ready.String())
}
