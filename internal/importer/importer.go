// Package importer loads a legacy JSON export of tools into the catalog.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/toolshelf/internal/catalog"
)

const DefaultBatchSize = 100

// Store is the part of the tool store the import writes through.
type Store interface {
	InsertBatch(ctx context.Context, tools []catalog.Tool) error
	Clear(ctx context.Context) error
}

// LegacyTool is one entry of the export. youtube_url and resources are missing from older entries.
type LegacyTool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Categories  []string           `json:"categories"`
	URL         string             `json:"url"`
	ImageURL    string             `json:"image_url"`
	YoutubeURL  *string            `json:"youtube_url"`
	Resources   []catalog.Resource `json:"resources"`
	CreatedAt   *time.Time         `json:"created_at"`
}

// Tool maps the entry to a record. Missing optional fields become empty values.
func (l LegacyTool) Tool() catalog.Tool {
	t := catalog.Tool{
		Name:        strings.TrimSpace(l.Name),
		Description: catalog.SanitizeHTML(l.Description),
		Categories:  catalog.NormalizeLabels(l.Categories),
		URL:         strings.TrimSpace(l.URL),
		ImageURL:    strings.TrimSpace(l.ImageURL),
		Resources:   l.Resources,
	}

	if l.YoutubeURL != nil {
		t.YoutubeURL = strings.TrimSpace(*l.YoutubeURL)
	}
	if t.Resources == nil {
		t.Resources = []catalog.Resource{}
	}
	if l.CreatedAt != nil {
		t.CreatedAt = *l.CreatedAt
	}

	return t
}

type Options struct {
	// Clear deletes every existing tool first.
	Clear     bool
	BatchSize int
}

type Report struct {
	Total    int
	Inserted int
	// FailedBatches holds the 1-based numbers of the batches that were rolled back.
	FailedBatches []int
}

type Importer struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// Run reads a JSON array of legacy tools from r and inserts them batch by batch. A batch is all or nothing;
// a failed batch is logged and the import moves on to the next one. Only an unreadable input or a cancelled
// context stops the run early.
func (im *Importer) Run(ctx context.Context, r io.Reader, opts Options) (Report, error) {
	var report Report

	var legacy []LegacyTool
	if err := json.NewDecoder(r).Decode(&legacy); err != nil {
		return report, fmt.Errorf("decode export: %w", err)
	}

	report.Total = len(legacy)
	im.logger.Info("found tools to import", slog.Int("count", report.Total))

	if opts.Clear {
		im.logger.Info("clearing existing tools")
		if err := im.store.Clear(ctx); err != nil {
			im.logger.Error("could not clear existing tools", slog.String("error", err.Error()))
		}
	}

	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := (len(legacy) + size - 1) / size

	for i := 0; i < len(legacy); i += size {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		n := i/size + 1
		end := min(i+size, len(legacy))

		batch := make([]catalog.Tool, 0, end-i)
		for _, l := range legacy[i:end] {
			batch = append(batch, l.Tool())
		}

		im.logger.Info("inserting batch", slog.Int("batch", n), slog.Int("of", batches))

		if err := im.store.InsertBatch(ctx, batch); err != nil {
			im.logger.Error("could not insert batch", slog.Int("batch", n), slog.String("error", err.Error()))
			report.FailedBatches = append(report.FailedBatches, n)
			continue
		}

		report.Inserted += len(batch)
	}

	im.logger.Info("import complete", slog.Int("inserted", report.Inserted), slog.Int("failed_batches", len(report.FailedBatches)))

	return report, nil
}
