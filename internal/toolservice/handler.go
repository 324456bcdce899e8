package toolservice

import (
	"context"
	"database/sql"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

func NewToolService(db *sql.DB, cache *common.Cache, mb common.MessageProducer, logger *slog.Logger) *ToolService {
	return NewToolServiceWithStore(NewToolModel(db), cache, mb, logger)
}

// NewToolServiceWithStore builds the service on any Store, typically a MemoryStore.
func NewToolServiceWithStore(store Store, cache *common.Cache, mb common.MessageProducer, logger *slog.Logger) *ToolService {
	if mb == nil {
		mb = common.DiscardProducer{}
	}

	return &ToolService{
		store:  store,
		c:      cache,
		mb:     mb,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// List returns the tools matching f.
func (s *ToolService) List(ctx context.Context, f catalog.Filter) ([]catalog.Tool, error) {
	return s.Select(ctx, catalog.BuildToolQuery(f))
}

// Select runs an already built query.
func (s *ToolService) Select(ctx context.Context, q catalog.Query) ([]catalog.Tool, error) {
	tools, err := s.store.Select(ctx, q)
	if err != nil {
		return nil, common.WrapStore("select tools", err)
	}

	return tools, nil
}

// Get returns a tool by its ID.
func (s *ToolService) Get(ctx context.Context, id int) (*catalog.Tool, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, common.WrapStore("get tool", err)
	}

	return t, nil
}

// Categories returns every category label in use, deduplicated and sorted.
func (s *ToolService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := s.c.Get(common.CacheKeyToolCategories); ok {
		return slices.Clone(cached.([]string)), nil
	}

	gen := s.c.Generation()
	lists, err := s.store.CategoryLists(ctx)
	if err != nil {
		return nil, common.WrapStore("list tool categories", err)
	}

	categories := catalog.Facet(lists)
	s.c.Fill(gen, common.CacheKeyToolCategories, categories)

	return slices.Clone(categories), nil
}

// Create validates and stores a new tool. Only administrators may create tools.
func (s *ToolService) Create(ctx context.Context, p catalog.Principal, t catalog.Tool) (*catalog.Tool, error) {
	if err := catalog.Authorize(p); err != nil {
		return nil, err
	}

	t = normalizeTool(t)

	v := common.NewValidator()
	validateTool(v, t)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	t.CreatedAt = s.now()

	if err := s.store.Insert(ctx, &t); err != nil {
		return nil, common.WrapStore("insert tool", err)
	}

	s.changed(ctx, catalog.ToolEvent(common.ToolCreatedKey, t, t.CreatedAt))

	return &t, nil
}

// Update changes the fields set in patch and returns the stored tool.
func (s *ToolService) Update(ctx context.Context, p catalog.Principal, id int, patch catalog.ToolPatch) (*catalog.Tool, error) {
	if err := catalog.Authorize(p); err != nil {
		return nil, err
	}

	patch = normalizePatch(patch)

	v := common.NewValidator()
	validateInt(v, id, "id")
	validatePatch(v, patch)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if patch.Empty() {
		return s.Get(ctx, id)
	}

	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, common.WrapStore("update tool", err)
	}

	s.changed(ctx, catalog.ToolEvent(common.ToolUpdatedKey, *t, s.now()))

	return t, nil
}

// Delete removes a tool. Deleting an ID that does not exist reports false and no error.
func (s *ToolService) Delete(ctx context.Context, p catalog.Principal, id int) (bool, error) {
	if err := catalog.Authorize(p); err != nil {
		return false, err
	}

	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return false, v.ValidationError()
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, common.WrapStore("delete tool", err)
	}

	if deleted {
		s.changed(ctx, catalog.Event{Kind: common.ToolDeletedKey, ID: id, At: s.now()})
	}

	return deleted, nil
}

// changed runs after every committed write.
func (s *ToolService) changed(ctx context.Context, ev catalog.Event) {
	s.c.Invalidate(common.CacheKeyToolCategories)

	if err := catalog.Publish(ctx, s.mb, ev); err != nil {
		s.logger.Error("could not publish tool event", slog.String("kind", string(ev.Kind)), slog.Int("id", ev.ID), slog.String("error", err.Error()))
	}
}

func normalizeTool(t catalog.Tool) catalog.Tool {
	t.ID = 0
	t.Name = strings.TrimSpace(t.Name)
	t.URL = strings.TrimSpace(t.URL)
	t.ImageURL = strings.TrimSpace(t.ImageURL)
	t.YoutubeURL = strings.TrimSpace(t.YoutubeURL)
	t.Description = catalog.SanitizeHTML(t.Description)
	t.Categories = catalog.NormalizeLabels(t.Categories)
	t.Resources = normalizeResources(t.Resources)
	return t
}

func normalizePatch(p catalog.ToolPatch) catalog.ToolPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}

	p.Name = trim(p.Name)
	p.URL = trim(p.URL)
	p.ImageURL = trim(p.ImageURL)
	p.YoutubeURL = trim(p.YoutubeURL)

	if p.Description != nil {
		d := catalog.SanitizeHTML(*p.Description)
		p.Description = &d
	}
	if p.Categories != nil {
		c := catalog.NormalizeLabels(*p.Categories)
		p.Categories = &c
	}
	if p.Resources != nil {
		r := normalizeResources(*p.Resources)
		p.Resources = &r
	}

	return p
}

func normalizeResources(resources []catalog.Resource) []catalog.Resource {
	out := make([]catalog.Resource, 0, len(resources))
	for _, r := range resources {
		out = append(out, catalog.Resource{Title: strings.TrimSpace(r.Title), URL: strings.TrimSpace(r.URL)})
	}
	return out
}
