// Package listing keeps the list of records shown for the active filter in step with the store.
// Results of superseded requests are dropped: the list always reflects the most recently requested query.
package listing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sushihentaime/toolshelf/internal/catalog"
)

type Status int

const (
	Loading Status = iota
	Error
	Ready
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Fetcher runs a query against the store.
type Fetcher[T any] func(ctx context.Context, q catalog.Query) ([]T, error)

// Ticket identifies one issued request.
type Ticket struct {
	seq   uint64
	Query catalog.Query
}

// Snapshot is a consistent copy of the listing state.
type Snapshot[T any] struct {
	Items  []T
	Status Status
	Err    error
	Query  catalog.Query
}

type Listing[T catalog.Record] struct {
	mu     sync.Mutex
	fetch  Fetcher[T]
	logger *slog.Logger

	seq    uint64
	query  catalog.Query
	items  []T
	status Status
	err    error
}

func New[T catalog.Record](fetch Fetcher[T], logger *slog.Logger) *Listing[T] {
	return &Listing[T]{fetch: fetch, logger: logger, status: Loading}
}

// Begin records q as the active query and returns the ticket its result must be resolved with.
func (l *Listing[T]) Begin(q catalog.Query) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.query = q
	l.status = Loading
	l.err = nil

	return Ticket{seq: l.seq, Query: q}
}

// Resolve applies the outcome of the request identified by t. It returns false, and changes nothing,
// when a newer request has been issued since. A failed fetch empties the list.
func (l *Listing[T]) Resolve(t Ticket, items []T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.seq != l.seq {
		l.logger.Debug("discarding stale result", slog.Uint64("ticket", t.seq), slog.Uint64("latest", l.seq))
		return false
	}

	if err != nil {
		l.logger.Error("could not load records", slog.String("error", err.Error()))
		l.items = nil
		l.status = Error
		l.err = err
		return true
	}

	l.items = append([]T(nil), items...)
	l.status = Ready
	l.err = nil

	return true
}

// Refresh issues q and waits for its result. The returned error is the fetch error when the result was applied.
func (l *Listing[T]) Refresh(ctx context.Context, q catalog.Query) error {
	t := l.Begin(q)

	items, err := l.fetch(ctx, q)
	if !l.Resolve(t, items, err) {
		return nil
	}

	return err
}

// Run executes the request for t. Callers that dispatch fetches themselves pair Begin with Run and Resolve.
func (l *Listing[T]) Run(ctx context.Context, t Ticket) ([]T, error) {
	return l.fetch(ctx, t.Query)
}

// Apply merges the result of a successful mutation into the displayed list.
func (l *Listing[T]) Apply(rec T, op catalog.Op) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = catalog.Reconcile(l.items, rec, op)
}

func (l *Listing[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]T(nil), l.items...)
}

func (l *Listing[T]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.status
}

func (l *Listing[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot[T]{
		Items:  append([]T(nil), l.items...),
		Status: l.status,
		Err:    l.err,
		Query:  l.query,
	}
}
