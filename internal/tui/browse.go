// Package tui provides the interactive catalog browser.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/engine"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Catalog is the part of the engine the browser drives.
type Catalog interface {
	Snapshot() engine.Snapshot
	Subscribe(engine.Listener) func()
	LoadPage(ctx context.Context, page int)
	NextPage(ctx context.Context)
	PrevPage(ctx context.Context)
	SetSearchTerm(term string)
	Search(ctx context.Context, term string)
	FetchRecommendations(ctx context.Context, title string)
	ClearSelection()
}

type bookItem struct {
	catalog.Book
}

func (i bookItem) Title() string {
	if i.PublicationYear != 0 {
		return fmt.Sprintf("%s (%d)", i.Book.Title, i.PublicationYear)
	}
	return i.Book.Title
}

func (i bookItem) Description() string {
	return strings.Join(i.Authors, ", ")
}

func (i bookItem) FilterValue() string {
	return i.Book.Title
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 2 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	titleLine := d.styles.title.Render(truncate(book.Title(), m.Width()-4))
	meta := truncate(book.Description(), m.Width()-16)
	if meta == "" {
		meta = "Unknown author"
	}
	metaLine := lipgloss.JoinHorizontal(lipgloss.Left,
		d.styles.meta.Render(meta),
		"  ",
		d.styles.rating.Render(fmt.Sprintf("%.2f", book.AverageRating)),
	)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, metaLine)))
}

// Model is the bubbletea model of the browse screen.
type Model struct {
	ctx         context.Context
	catalog     Catalog
	inbox       *Inbox
	unsubscribe func()

	list   list.Model
	search textinput.Model
	snap   engine.Snapshot
}

// NewModel subscribes to c and returns a model showing its current state.
func NewModel(ctx context.Context, c Catalog, inbox *Inbox) *Model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = statusStyle

	search := textinput.New()
	search.Placeholder = "Search titles"
	search.Prompt = "/ "
	search.CharLimit = 120

	m := &Model{
		ctx:         ctx,
		catalog:     c,
		inbox:       inbox,
		unsubscribe: c.Subscribe(inbox.Listener()),
		list:        l,
		search:      search,
	}
	m.refresh()
	return m
}

// Init loads the first page and starts listening for changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.inbox.wait(m.ctx), m.run(func(ctx context.Context) {
		m.catalog.LoadPage(ctx, 0)
	}))
}

// run executes an engine intent off the event loop.
func (m *Model) run(fn func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(m.ctx)
		return nil
	}
}

func (m *Model) refresh() {
	m.snap = m.catalog.Snapshot()
	items := make([]list.Item, len(m.snap.Visible))
	for i, b := range m.snap.Visible {
		items[i] = bookItem{Book: b}
	}
	m.list.SetItems(items)
}

// Update handles key presses and engine changes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, m.inbox.wait(m.ctx)
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-12, 5)
		m.list.SetSize(width, height)
		return m, nil
	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "tab":
		m.search.Blur()
		return m, nil
	case "enter":
		m.search.Blur()
		term := m.search.Value()
		return m, m.run(func(ctx context.Context) { m.catalog.Search(ctx, term) })
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != before {
		m.catalog.SetSearchTerm(term)
	}
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "/", "tab":
		return m, m.search.Focus()
	case "right", "l", "pgdown":
		return m, m.run(m.catalog.NextPage)
	case "left", "h", "pgup":
		return m, m.run(m.catalog.PrevPage)
	case "r":
		page := m.snap.CurrentPage
		return m, m.run(func(ctx context.Context) { m.catalog.LoadPage(ctx, page) })
	case "enter":
		if selected, ok := m.list.SelectedItem().(bookItem); ok {
			title := selected.Book.Title
			return m, m.run(func(ctx context.Context) { m.catalog.FetchRecommendations(ctx, title) })
		}
		return m, nil
	case "esc":
		m.catalog.ClearSelection()
		return m, nil
	case "x":
		m.inbox.Dismiss()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return m, tea.Quit
}

// View renders the screen.
func (m *Model) View() string {
	sections := []string{
		headerStyle.Render(m.header()),
		m.search.View(),
		m.list.View(),
	}
	if status := m.status(); status != "" {
		sections = append(sections, statusStyle.Render(status))
	}
	if panel := m.recommendations(); panel != "" {
		sections = append(sections, panel)
	}
	for _, toast := range m.inbox.Toasts() {
		style, ok := toastStyles[toast.Severity]
		if !ok {
			style = toastStyles["info"]
		}
		sections = append(sections, style.Render(toast.Message))
	}
	sections = append(sections, helpStyle.Render(
		"/ search | Left/Right page | Enter recommend | Esc close | r reload | x dismiss | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) header() string {
	if m.snap.Mode == catalog.ModeSearch {
		return fmt.Sprintf("Shelf | search %q | page %d", m.snap.SearchTerm, m.snap.CurrentPage+1)
	}
	return fmt.Sprintf("Shelf | browse | page %d", m.snap.CurrentPage+1)
}

func (m *Model) status() string {
	var parts []string
	if m.snap.IsLoading {
		parts = append(parts, "Loading books...")
	}
	if m.snap.IsSearching {
		parts = append(parts, "Searching...")
	}
	if m.snap.Err != nil {
		parts = append(parts, "Last error: "+m.snap.Err.Message)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) recommendations() string {
	title := m.snap.SelectedTitle
	if title == "" {
		return ""
	}

	lines := []string{panelTitleStyle.Render("Because you picked " + title)}
	switch books := m.snap.SelectedRecommendations(); {
	case m.snap.RecommendationsLoading():
		lines = append(lines, statusStyle.Render("Loading recommendations..."))
	case len(books) == 0:
		lines = append(lines, statusStyle.Render("No recommendations"))
	default:
		for _, b := range books {
			lines = append(lines, "- "+bookItem{Book: b}.Title())
		}
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Run shows the browser until the user quits.
func Run(ctx context.Context, c Catalog, inbox *Inbox) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, c, inbox)
	defer func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	}()

	if _, err := runProgram(m); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
