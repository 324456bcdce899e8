package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

var (
	ErrDuplicateSlug = errors.New("a post with this slug already exists")
)

const postColumns = `id, title, slug, content, excerpt, featured_image, author, categories, tags, published, published_at, created_at, updated_at`

func NewPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// UniqueViolation is a helper function to check if the error is a unique constraint error on the named constraint.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*catalog.Post, error) {
	var (
		p           catalog.Post
		publishedAt sql.NullTime
	)

	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &p.Author,
		pq.Array(&p.Categories), pq.Array(&p.Tags), &p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		ts := publishedAt.Time
		p.PublishedAt = &ts
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	return &p, nil
}

func nullTime(p *catalog.Post) sql.NullTime {
	if p.PublishedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p.PublishedAt, Valid: true}
}

func (m *PostModel) Select(ctx context.Context, q catalog.Query) ([]catalog.Post, error) {
	where, args := q.Where(0)

	query := fmt.Sprintf(`
		SELECT %s
		FROM blog_posts
		WHERE %s
		ORDER BY %s`, postColumns, where, q.OrderBy())

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []catalog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) getBy(ctx context.Context, column string, arg any) (*catalog.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blog_posts
		WHERE %s = $1`, postColumns, column)

	p, err := scanPost(m.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return p, nil
}

func (m *PostModel) Get(ctx context.Context, id int) (*catalog.Post, error) {
	return m.getBy(ctx, "id", id)
}

func (m *PostModel) GetBySlug(ctx context.Context, slug string) (*catalog.Post, error) {
	return m.getBy(ctx, "slug", slug)
}

func (m *PostModel) Insert(ctx context.Context, p *catalog.Post) error {
	query := `
		INSERT INTO blog_posts (title, slug, content, excerpt, featured_image, author, categories, tags, published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	args := []any{
		p.Title,
		p.Slug,
		p.Content,
		p.Excerpt,
		p.FeaturedImage,
		p.Author,
		pq.Array(p.Categories),
		pq.Array(p.Tags),
		p.Published,
		nullTime(p),
		p.CreatedAt,
		p.UpdatedAt,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID)
	if err != nil {
		switch {
		case UniqueViolation(err, "blog_posts_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// Update applies patch under a row lock. published_at is only ever filled, never cleared or moved.
func (m *PostModel) Update(ctx context.Context, id int, patch catalog.PostPatch) (*catalog.Post, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		SELECT %s
		FROM blog_posts
		WHERE id = $1
		FOR UPDATE`, postColumns)

	current, err := scanPost(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	p := patch.Apply(*current)

	query = `
		UPDATE blog_posts
		SET title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5, author = $6,
			categories = $7, tags = $8, published = $9, published_at = COALESCE(published_at, $10), updated_at = $11
		WHERE id = $12
		RETURNING published_at`

	args := []any{
		p.Title,
		p.Slug,
		p.Content,
		p.Excerpt,
		p.FeaturedImage,
		p.Author,
		pq.Array(p.Categories),
		pq.Array(p.Tags),
		p.Published,
		nullTime(&p),
		p.UpdatedAt,
		id,
	}

	var publishedAt sql.NullTime
	err = tx.QueryRowContext(ctx, query, args...).Scan(&publishedAt)
	if err != nil {
		switch {
		case UniqueViolation(err, "blog_posts_slug_key"):
			return nil, ErrDuplicateSlug
		default:
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		ts := publishedAt.Time
		p.PublishedAt = &ts
	}

	return &p, nil
}

func (m *PostModel) Delete(ctx context.Context, id int) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (m *PostModel) LabelLists(ctx context.Context) ([][]string, [][]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT categories, tags FROM blog_posts`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var categories, tags [][]string
	for rows.Next() {
		var c, t []string
		if err := rows.Scan(pq.Array(&c), pq.Array(&t)); err != nil {
			return nil, nil, err
		}
		categories = append(categories, c)
		tags = append(tags, t)
	}

	return categories, tags, rows.Err()
}
