// Package console is the terminal admin dashboard. It lists tools and posts through the listing
// package and sends deletes and publish toggles through the gateways.
package console

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/listing"
)

// ToolBackend is satisfied by *toolservice.ToolService.
type ToolBackend interface {
	Select(ctx context.Context, q catalog.Query) ([]catalog.Tool, error)
	Categories(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, p catalog.Principal, id int) (bool, error)
}

// PostBackend is satisfied by *blogservice.BlogService.
type PostBackend interface {
	Select(ctx context.Context, q catalog.Query) ([]catalog.Post, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, p catalog.Principal, id int, patch catalog.PostPatch) (*catalog.Post, error)
	Delete(ctx context.Context, p catalog.Principal, id int) (bool, error)
}

type Tab int

const (
	ToolsTab Tab = iota
	PostsTab
)

func (t Tab) String() string {
	if t == PostsTab {
		return "Blog Posts"
	}
	return "Tools"
}

var (
	toolSorts = []catalog.SortKey{catalog.SortName, catalog.SortRecent}
	postSorts = []catalog.SortKey{catalog.SortRecent, catalog.SortPopular, catalog.SortTitle}
)

// pane is the filter and cursor state of one tab. Category 0 is "all".
type pane struct {
	search     string
	categories []string
	category   int
	sorts      []catalog.SortKey
	sort       int
	cursor     int
	published  catalog.PublishedFilter
}

func (p pane) filter() catalog.Filter {
	f := catalog.Filter{Search: p.search, Sort: p.sorts[p.sort], Published: p.published}
	if p.category > 0 && p.category <= len(p.categories) {
		f.Category = p.categories[p.category-1]
	}
	return f
}

func (p pane) categoryLabel() string {
	if p.category == 0 || p.category > len(p.categories) {
		return "All Categories"
	}
	return p.categories[p.category-1]
}

type toolsFetchedMsg struct {
	ticket listing.Ticket
	items  []catalog.Tool
	err    error
}

type postsFetchedMsg struct {
	ticket listing.Ticket
	items  []catalog.Post
	err    error
}

type facetsMsg struct {
	tab        Tab
	categories []string
	err        error
}

type initialLoadMsg struct {
	tools          toolsFetchedMsg
	posts          postsFetchedMsg
	toolCategories []string
	postCategories []string
	err            error
}

type mutatedMsg struct {
	tab     Tab
	op      catalog.Op
	id      int
	post    *catalog.Post
	deleted bool
	err     error
}

type Model struct {
	ctx       context.Context
	principal catalog.Principal
	tools     ToolBackend
	posts     PostBackend
	logger    *slog.Logger

	toolList *listing.Listing[catalog.Tool]
	postList *listing.Listing[catalog.Post]

	active    Tab
	panes     [2]pane
	search    textinput.Model
	searching bool
	// pending is the id awaiting delete confirmation, 0 when none.
	pending int
	status  string
	width   int
}

func New(ctx context.Context, principal catalog.Principal, tools ToolBackend, posts PostBackend, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctx:       ctx,
		principal: principal,
		tools:     tools,
		posts:     posts,
		logger:    logger,
		toolList:  listing.New[catalog.Tool](tools.Select, logger),
		postList:  listing.New[catalog.Post](posts.Select, logger),
		panes: [2]pane{
			ToolsTab: {sorts: toolSorts},
			PostsTab: {sorts: postSorts, published: catalog.PublishedAny},
		},
		search: ti,
	}
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, principal catalog.Principal, tools ToolBackend, posts PostBackend, logger *slog.Logger) error {
	_, err := tea.NewProgram(New(ctx, principal, tools, posts, logger), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init loads both tabs and their category facets concurrently.
func (m Model) Init() tea.Cmd {
	tt := m.toolList.Begin(catalog.BuildToolQuery(m.panes[ToolsTab].filter()))
	pt := m.postList.Begin(catalog.BuildPostQuery(m.panes[PostsTab].filter()))

	ctx, tools, posts := m.ctx, m.tools, m.posts
	toolList, postList := m.toolList, m.postList

	return func() tea.Msg {
		msg := initialLoadMsg{
			tools: toolsFetchedMsg{ticket: tt},
			posts: postsFetchedMsg{ticket: pt},
		}

		// Listing failures are reported per tab; only facet failures surface through Wait.
		var g errgroup.Group
		g.Go(func() error {
			msg.tools.items, msg.tools.err = toolList.Run(ctx, tt)
			return nil
		})
		g.Go(func() error {
			msg.posts.items, msg.posts.err = postList.Run(ctx, pt)
			return nil
		})
		g.Go(func() error {
			var err error
			msg.toolCategories, err = tools.Categories(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.postCategories, err = posts.Categories(ctx)
			return err
		})
		msg.err = g.Wait()

		return msg
	}
}

// refresh issues a new request for tab. Only the latest request per tab is ever applied.
func (m Model) refresh(tab Tab) tea.Cmd {
	ctx := m.ctx
	f := m.panes[tab].filter()

	if tab == PostsTab {
		l := m.postList
		t := l.Begin(catalog.BuildPostQuery(f))
		return func() tea.Msg {
			items, err := l.Run(ctx, t)
			return postsFetchedMsg{ticket: t, items: items, err: err}
		}
	}

	l := m.toolList
	t := l.Begin(catalog.BuildToolQuery(f))
	return func() tea.Msg {
		items, err := l.Run(ctx, t)
		return toolsFetchedMsg{ticket: t, items: items, err: err}
	}
}

func (m Model) loadFacets(tab Tab) tea.Cmd {
	ctx := m.ctx
	if tab == PostsTab {
		posts := m.posts
		return func() tea.Msg {
			categories, err := posts.Categories(ctx)
			return facetsMsg{tab: tab, categories: categories, err: err}
		}
	}

	tools := m.tools
	return func() tea.Msg {
		categories, err := tools.Categories(ctx)
		return facetsMsg{tab: tab, categories: categories, err: err}
	}
}

func (m Model) deleteCmd(tab Tab, id int) tea.Cmd {
	ctx, p := m.ctx, m.principal
	if tab == PostsTab {
		posts := m.posts
		return func() tea.Msg {
			deleted, err := posts.Delete(ctx, p, id)
			return mutatedMsg{tab: tab, op: catalog.OpDelete, id: id, deleted: deleted, err: err}
		}
	}

	tools := m.tools
	return func() tea.Msg {
		deleted, err := tools.Delete(ctx, p, id)
		return mutatedMsg{tab: tab, op: catalog.OpDelete, id: id, deleted: deleted, err: err}
	}
}

func (m Model) togglePublishCmd(post catalog.Post) tea.Cmd {
	ctx, p, posts := m.ctx, m.principal, m.posts
	published := !post.Published

	return func() tea.Msg {
		updated, err := posts.Update(ctx, p, post.ID, catalog.PostPatch{Published: &published})
		return mutatedMsg{tab: PostsTab, op: catalog.OpUpdate, id: post.ID, post: updated, err: err}
	}
}

// selected returns the id under the cursor of the active tab, or 0 for an empty list.
func (m Model) selected() int {
	c := m.panes[m.active].cursor
	if m.active == PostsTab {
		items := m.postList.Items()
		if c < len(items) {
			return items[c].ID
		}
		return 0
	}

	items := m.toolList.Items()
	if c < len(items) {
		return items[c].ID
	}
	return 0
}

func (m Model) selectedPost() (catalog.Post, bool) {
	items := m.postList.Items()
	c := m.panes[PostsTab].cursor
	if m.active != PostsTab || c >= len(items) {
		return catalog.Post{}, false
	}
	return items[c], true
}

func (m *Model) clampCursor(tab Tab) {
	n := len(m.toolList.Items())
	if tab == PostsTab {
		n = len(m.postList.Items())
	}

	p := &m.panes[tab]
	if p.cursor >= n {
		p.cursor = max(n-1, 0)
	}
}

func (m *Model) switchTab(tab Tab) {
	m.active = tab
	m.pending = 0
	m.search.SetValue(m.panes[tab].search)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case initialLoadMsg:
		m.toolList.Resolve(msg.tools.ticket, msg.tools.items, msg.tools.err)
		m.postList.Resolve(msg.posts.ticket, msg.posts.items, msg.posts.err)
		m.panes[ToolsTab].categories = msg.toolCategories
		m.panes[PostsTab].categories = msg.postCategories
		if msg.err != nil {
			m.status = fmt.Sprintf("could not load categories: %v", msg.err)
		}
		m.clampCursor(ToolsTab)
		m.clampCursor(PostsTab)
		return m, nil

	case toolsFetchedMsg:
		m.toolList.Resolve(msg.ticket, msg.items, msg.err)
		m.clampCursor(ToolsTab)
		return m, nil

	case postsFetchedMsg:
		m.postList.Resolve(msg.ticket, msg.items, msg.err)
		m.clampCursor(PostsTab)
		return m, nil

	case facetsMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("could not load categories: %v", msg.err)
			return m, nil
		}
		m.panes[msg.tab].categories = msg.categories
		return m, nil

	case mutatedMsg:
		return m.mutated(msg)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.pending != 0 {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) mutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		return m, nil
	}

	switch {
	case msg.op == catalog.OpDelete && msg.tab == PostsTab:
		m.postList.Apply(catalog.Post{ID: msg.id}, catalog.OpDelete)
	case msg.op == catalog.OpDelete:
		m.toolList.Apply(catalog.Tool{ID: msg.id}, catalog.OpDelete)
	case msg.post != nil:
		m.postList.Apply(*msg.post, msg.op)
	}

	switch {
	case msg.op == catalog.OpDelete && !msg.deleted:
		m.status = fmt.Sprintf("#%d was already gone", msg.id)
	case msg.op == catalog.OpDelete:
		m.status = fmt.Sprintf("deleted #%d", msg.id)
	case msg.post != nil && msg.post.Published:
		m.status = fmt.Sprintf("published %q", msg.post.Title)
	case msg.post != nil:
		m.status = fmt.Sprintf("unpublished %q", msg.post.Title)
	}

	m.clampCursor(msg.tab)

	return m, m.loadFacets(msg.tab)
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if v := m.search.Value(); v != m.panes[m.active].search {
		m.panes[m.active].search = v
		m.panes[m.active].cursor = 0
		return m, tea.Batch(cmd, m.refresh(m.active))
	}

	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pending
	m.pending = 0

	if msg.String() != "y" {
		m.status = "delete cancelled"
		return m, nil
	}

	m.status = fmt.Sprintf("deleting #%d", id)
	return m, m.deleteCmd(m.active, id)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.panes[m.active]

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "right", "shift+tab", "left":
		m.switchTab((m.active + 1) % 2)
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "c":
		p.category = (p.category + 1) % (len(p.categories) + 1)
		p.cursor = 0
		return m, m.refresh(m.active)
	case "s":
		p.sort = (p.sort + 1) % len(p.sorts)
		p.cursor = 0
		return m, m.refresh(m.active)
	case "r":
		return m, m.refresh(m.active)
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		p.cursor++
		m.clampCursor(m.active)
	case "d":
		if id := m.selected(); id != 0 {
			m.pending = id
			m.status = fmt.Sprintf("delete #%d? (y/n)", id)
		}
	case "p":
		if post, ok := m.selectedPost(); ok {
			return m, m.togglePublishCmd(post)
		}
	}

	return m, nil
}
