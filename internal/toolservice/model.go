package toolservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

const toolColumns = `id, name, description, categories, url, image_url, youtube_url, resources, created_at`

func NewToolModel(db *sql.DB) *ToolModel {
	return &ToolModel{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTool(row scanner) (*catalog.Tool, error) {
	var (
		t         catalog.Tool
		resources []byte
	)

	err := row.Scan(&t.ID, &t.Name, &t.Description, pq.Array(&t.Categories), &t.URL, &t.ImageURL, &t.YoutubeURL, &resources, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(resources, &t.Resources); err != nil {
		return nil, fmt.Errorf("decode resources of tool %d: %w", t.ID, err)
	}

	if t.Categories == nil {
		t.Categories = []string{}
	}
	if t.Resources == nil {
		t.Resources = []catalog.Resource{}
	}

	return &t, nil
}

func encodeResources(resources []catalog.Resource) (string, error) {
	if resources == nil {
		resources = []catalog.Resource{}
	}

	b, err := json.Marshal(resources)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (m *ToolModel) Select(ctx context.Context, q catalog.Query) ([]catalog.Tool, error) {
	where, args := q.Where(0)

	query := fmt.Sprintf(`
		SELECT %s
		FROM ai_tools
		WHERE %s
		ORDER BY %s`, toolColumns, where, q.OrderBy())

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tools := []catalog.Tool{}
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tools, nil
}

func (m *ToolModel) Get(ctx context.Context, id int) (*catalog.Tool, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM ai_tools
		WHERE id = $1`, toolColumns)

	t, err := scanTool(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return t, nil
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTool(ctx context.Context, db execer, t *catalog.Tool) error {
	resources, err := encodeResources(t.Resources)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ai_tools (name, description, categories, url, image_url, youtube_url, resources, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::timestamptz, NOW()))
		RETURNING id, created_at`

	// A zero creation time lets the database stamp the row.
	var createdAt any
	if !t.CreatedAt.IsZero() {
		createdAt = t.CreatedAt
	}

	args := []any{
		t.Name,
		t.Description,
		pq.Array(t.Categories),
		t.URL,
		t.ImageURL,
		t.YoutubeURL,
		resources,
		createdAt,
	}

	return db.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt)
}

func (m *ToolModel) Insert(ctx context.Context, t *catalog.Tool) error {
	return insertTool(ctx, m.db, t)
}

// Update applies p inside a transaction holding the row lock, so concurrent patches of different fields do not
// overwrite each other.
func (m *ToolModel) Update(ctx context.Context, id int, p catalog.ToolPatch) (*catalog.Tool, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		SELECT %s
		FROM ai_tools
		WHERE id = $1
		FOR UPDATE`, toolColumns)

	current, err := scanTool(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	t := p.Apply(*current)

	resources, err := encodeResources(t.Resources)
	if err != nil {
		return nil, err
	}

	query = `
		UPDATE ai_tools
		SET name = $1, description = $2, categories = $3, url = $4, image_url = $5, youtube_url = $6, resources = $7
		WHERE id = $8`

	_, err = tx.ExecContext(ctx, query, t.Name, t.Description, pq.Array(t.Categories), t.URL, t.ImageURL, t.YoutubeURL, resources, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &t, nil
}

func (m *ToolModel) Delete(ctx context.Context, id int) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM ai_tools WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (m *ToolModel) CategoryLists(ctx context.Context) ([][]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT categories FROM ai_tools`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists [][]string
	for rows.Next() {
		var categories []string
		if err := rows.Scan(pq.Array(&categories)); err != nil {
			return nil, err
		}
		lists = append(lists, categories)
	}

	return lists, rows.Err()
}

func (m *ToolModel) InsertBatch(ctx context.Context, tools []catalog.Tool) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range tools {
		if err := insertTool(ctx, tx, &tools[i]); err != nil {
			return fmt.Errorf("insert %q: %w", tools[i].Name, err)
		}
	}

	return tx.Commit()
}

func (m *ToolModel) Clear(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM ai_tools`)
	return err
}
