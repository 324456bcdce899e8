package toolservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

// Store persists tools. ToolModel is the postgres implementation and MemoryStore the in-process one.
type Store interface {
	Select(ctx context.Context, q catalog.Query) ([]catalog.Tool, error)
	Get(ctx context.Context, id int) (*catalog.Tool, error)
	// Insert assigns the identifier of t.
	Insert(ctx context.Context, t *catalog.Tool) error
	Update(ctx context.Context, id int, p catalog.ToolPatch) (*catalog.Tool, error)
	Delete(ctx context.Context, id int) (bool, error)
	CategoryLists(ctx context.Context) ([][]string, error)
	// InsertBatch inserts every tool or none of them.
	InsertBatch(ctx context.Context, tools []catalog.Tool) error
	Clear(ctx context.Context) error
}

type ToolModel struct {
	db *sql.DB
}

type ToolService struct {
	store  Store
	c      *common.Cache
	mb     common.MessageProducer
	logger *slog.Logger
	now    func() time.Time
}
