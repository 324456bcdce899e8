package catalog

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// The functions below evaluate a Query in memory with the same semantics the postgres models
// give it in SQL. The in-memory stores use them.

func (q Query) MatchTool(t Tool) bool {
	if q.Category != "" && !slices.Contains(t.Categories, q.Category) {
		return false
	}
	return q.matchText(func(col string) string {
		switch col {
		case ColName:
			return t.Name
		case ColDescription:
			return t.Description
		}
		return ""
	})
}

func (q Query) MatchPost(p Post) bool {
	switch q.Published {
	case PublishedOnly:
		if !p.Published {
			return false
		}
	case PublishedNone:
		if p.Published {
			return false
		}
	}

	if q.Category != "" && !slices.Contains(p.Categories, q.Category) {
		return false
	}

	return q.matchText(func(col string) string {
		switch col {
		case ColTitle:
			return p.Title
		case ColContent:
			return p.Content
		case ColExcerpt:
			return p.Excerpt
		}
		return ""
	})
}

func (q Query) matchText(field func(col string) string) bool {
	if q.Pattern == "" {
		return true
	}
	for _, col := range q.SearchColumns {
		if LikeMatch(q.Pattern, field(col)) {
			return true
		}
	}
	return false
}

func (q Query) SortTools(tools []Tool) {
	sort.SliceStable(tools, func(i, j int) bool {
		return q.less(toolColumns(tools[i]), toolColumns(tools[j]))
	})
}

func (q Query) SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return q.less(postColumns(posts[i]), postColumns(posts[j]))
	})
}

// value is a sortable column value; nil times sort as NULL.
type value struct {
	s    string
	t    *time.Time
	n    int
	kind byte
}

func toolColumns(t Tool) map[string]value {
	created := t.CreatedAt
	return map[string]value{
		ColID:        {n: t.ID, kind: 'n'},
		ColName:      {s: t.Name, kind: 's'},
		ColCreatedAt: {t: &created, kind: 't'},
	}
}

func postColumns(p Post) map[string]value {
	created := p.CreatedAt
	return map[string]value{
		ColID:          {n: p.ID, kind: 'n'},
		ColTitle:       {s: p.Title, kind: 's'},
		ColCreatedAt:   {t: &created, kind: 't'},
		ColPublishedAt: {t: p.PublishedAt, kind: 't'},
	}
}

func (q Query) less(a, b map[string]value) bool {
	for _, o := range q.Order {
		c := compare(a[o.Column], b[o.Column], o)
		if c != 0 {
			return c < 0
		}
	}
	return false
}

// compare returns the ordering of a and b under o, with NULL placement already applied.
func compare(a, b value, o Order) int {
	if a.kind == 't' && (a.t == nil || b.t == nil) {
		switch {
		case a.t == nil && b.t == nil:
			return 0
		case a.t == nil:
			if o.NullsLast {
				return 1
			}
			return -1
		default:
			if o.NullsLast {
				return -1
			}
			return 1
		}
	}

	var c int
	switch a.kind {
	case 's':
		x, y := a.s, b.s
		if o.Fold {
			x, y = strings.ToLower(x), strings.ToLower(y)
		}
		c = strings.Compare(x, y)
	case 't':
		c = a.t.Compare(*b.t)
	case 'n':
		c = a.n - b.n
	}

	if o.Descending {
		return -c
	}
	return c
}
