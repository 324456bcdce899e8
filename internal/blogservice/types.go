package blogservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

// Store persists posts. PostModel is the postgres implementation and MemoryStore the in-process one.
type Store interface {
	Select(ctx context.Context, q catalog.Query) ([]catalog.Post, error)
	Get(ctx context.Context, id int) (*catalog.Post, error)
	GetBySlug(ctx context.Context, slug string) (*catalog.Post, error)
	// Insert assigns the identifier of p. A taken slug is ErrDuplicateSlug.
	Insert(ctx context.Context, p *catalog.Post) error
	Update(ctx context.Context, id int, patch catalog.PostPatch) (*catalog.Post, error)
	Delete(ctx context.Context, id int) (bool, error)
	// LabelLists returns the categories and tags of every post.
	LabelLists(ctx context.Context) (categories, tags [][]string, err error)
}

type PostModel struct {
	db *sql.DB
}

type BlogService struct {
	store  Store
	c      *common.Cache
	mb     common.MessageProducer
	logger *slog.Logger
	now    func() time.Time
}
