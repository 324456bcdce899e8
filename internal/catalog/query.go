package catalog

import (
	"regexp"
	"strings"
)

// MatchAll is the category sentinel the UI sends for "All Categories".
const MatchAll = "all"

type SortKey string

const (
	SortName    SortKey = "name"
	SortRecent  SortKey = "recent"
	SortPopular SortKey = "popular"
	SortTitle   SortKey = "title"

	// Legacy values still sent by older clients.
	sortRated        SortKey = "rated"
	sortAlphabetical SortKey = "alphabetical"
)

// PublishedFilter restricts posts by publication state. The zero value shows published posts only.
type PublishedFilter int

const (
	PublishedOnly PublishedFilter = iota
	PublishedAny
	PublishedNone
)

// ParsePublished maps the query-string form of the published facet. An absent value means published only,
// which is what the public listing shows.
func ParsePublished(s string) PublishedFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "draft", "drafts":
		return PublishedNone
	case "all", "any":
		return PublishedAny
	default:
		return PublishedOnly
	}
}

// Filter is the set of user-selected facets. Every field is optional.
type Filter struct {
	Category  string
	Search    string
	Sort      SortKey
	Published PublishedFilter
}

// Column names understood by the stores.
const (
	ColID          = "id"
	ColName        = "name"
	ColDescription = "description"
	ColTitle       = "title"
	ColContent     = "content"
	ColExcerpt     = "excerpt"
	ColCreatedAt   = "created_at"
	ColPublishedAt = "published_at"
)

type Order struct {
	Column     string
	Descending bool
	// Fold compares case-insensitively.
	Fold      bool
	NullsLast bool
}

// Query is the descriptor handed to a store. Stores never see the raw filter.
type Query struct {
	// Category is an exact label that must be present in the record's categories. Empty means any.
	Category string
	// Search is the trimmed term as typed. Pattern is its escaped ILIKE form.
	Search        string
	Pattern       string
	SearchColumns []string
	Published     PublishedFilter
	Order         []Order
}

var (
	toolSearchColumns = []string{ColName, ColDescription}
	postSearchColumns = []string{ColTitle, ColContent, ColExcerpt}
	tieBreaker        = Order{Column: ColID}
)

// BuildToolQuery translates a filter into a query over tools. Unknown sort keys sort by name.
func BuildToolQuery(f Filter) Query {
	q := baseQuery(f, toolSearchColumns)

	switch f.Sort {
	case SortRecent:
		q.Order = []Order{{Column: ColCreatedAt, Descending: true}, tieBreaker}
	default:
		q.Order = []Order{{Column: ColName, Fold: true}, tieBreaker}
	}

	return q
}

// BuildPostQuery translates a filter into a query over posts. Unknown sort keys put the most recently published first.
func BuildPostQuery(f Filter) Query {
	q := baseQuery(f, postSearchColumns)
	q.Published = f.Published

	switch f.Sort {
	case SortPopular:
		q.Order = []Order{{Column: ColCreatedAt, Descending: true}, tieBreaker}
	case SortTitle, sortAlphabetical:
		q.Order = []Order{{Column: ColTitle, Fold: true}, tieBreaker}
	default:
		q.Order = []Order{{Column: ColPublishedAt, Descending: true, NullsLast: true}, {Column: ColCreatedAt, Descending: true}, tieBreaker}
	}

	return q
}

func baseQuery(f Filter, searchColumns []string) Query {
	var q Query

	category := strings.TrimSpace(f.Category)
	if category != "" && !strings.EqualFold(category, MatchAll) {
		q.Category = category
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		q.Search = term
		q.Pattern = "%" + EscapeLike(term) + "%"
		q.SearchColumns = searchColumns
	}

	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters so the term matches literally. The escape character is a backslash.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// LikeMatch evaluates a backslash-escaped ILIKE pattern against s.
func LikeMatch(pattern, s string) bool {
	var b strings.Builder
	b.WriteString(`(?is)^`)

	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}

	return re.MatchString(s)
}
