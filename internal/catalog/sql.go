package catalog

import (
	"fmt"
	"strings"
)

var sortableColumns = map[string]bool{
	ColID:          true,
	ColName:        true,
	ColTitle:       true,
	ColCreatedAt:   true,
	ColPublishedAt: true,
}

var searchableColumns = map[string]bool{
	ColName:        true,
	ColDescription: true,
	ColTitle:       true,
	ColContent:     true,
	ColExcerpt:     true,
}

// Where renders the filtering part of q as a SQL condition. Placeholders are numbered from offset+1.
// An empty condition is returned as "TRUE".
func (q Query) Where(offset int) (string, []any) {
	var (
		conds []string
		args  []any
	)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", offset+len(args))
	}

	switch q.Published {
	case PublishedOnly:
		conds = append(conds, "published = TRUE")
	case PublishedNone:
		conds = append(conds, "published = FALSE")
	}

	if q.Category != "" {
		conds = append(conds, next(q.Category)+" = ANY(categories)")
	}

	if q.Pattern != "" {
		p := next(q.Pattern)
		var or []string
		for _, col := range q.SearchColumns {
			if !searchableColumns[col] {
				continue
			}
			or = append(or, fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, p))
		}
		if len(or) > 0 {
			conds = append(conds, "("+strings.Join(or, " OR ")+")")
		}
	}

	if len(conds) == 0 {
		return "TRUE", nil
	}

	return strings.Join(conds, " AND "), args
}

// OrderBy renders the ordering of q. Columns outside the known set are ignored.
func (q Query) OrderBy() string {
	var terms []string
	for _, o := range q.Order {
		if !sortableColumns[o.Column] {
			continue
		}

		col := o.Column
		if o.Fold {
			col = "lower(" + col + ")"
		}

		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}

		nulls := "NULLS FIRST"
		if o.NullsLast {
			nulls = "NULLS LAST"
		}

		terms = append(terms, col+" "+dir+" "+nulls)
	}

	if len(terms) == 0 {
		return ColID + " ASC"
	}

	return strings.Join(terms, ", ")
}
