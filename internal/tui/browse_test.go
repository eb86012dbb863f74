package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/engine"
	"github.com/lepinkainen/shelf/internal/notify"
)

type fakeCatalog struct {
	mu        sync.Mutex
	snap      engine.Snapshot
	listeners []engine.Listener
	calls     []string
	terms     []string
	titles    []string
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) Snapshot() engine.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeCatalog) Subscribe(l engine.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
	return func() { f.record("unsubscribe") }
}

func (f *fakeCatalog) LoadPage(_ context.Context, page int) { f.record("load") }
func (f *fakeCatalog) NextPage(context.Context)             { f.record("next") }
func (f *fakeCatalog) PrevPage(context.Context)             { f.record("prev") }
func (f *fakeCatalog) ClearSelection()                      { f.record("clear") }

func (f *fakeCatalog) SetSearchTerm(term string) {
	f.record("search")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, term)
}

func (f *fakeCatalog) Search(_ context.Context, term string) {
	f.record("search now")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, term)
}

func (f *fakeCatalog) FetchRecommendations(_ context.Context, title string) {
	f.record("recommend")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
}

func books() []catalog.Book {
	return []catalog.Book{
		{ID: 1, Title: "Dune", Authors: []string{"Frank Herbert"}, PublicationYear: 1965, AverageRating: 4.25},
		{ID: 2, Title: "Hyperion", Authors: []string{"Dan Simmons"}, PublicationYear: 1989, AverageRating: 4.2},
	}
}

func newTestModel(t *testing.T, snap engine.Snapshot) (*Model, *fakeCatalog) {
	t.Helper()
	c := &fakeCatalog{snap: snap}
	m := NewModel(context.Background(), c, NewInbox())
	return m, c
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs a command returned by Update the way the program would.
func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestModel_ShowsVisibleBooks(t *testing.T) {
	snap := engine.Snapshot{Snapshot: catalog.Snapshot{Visible: books(), Books: books()}}
	m, c := newTestModel(t, snap)

	view := m.View()
	assert.Contains(t, view, "Dune (1965)")
	assert.Contains(t, view, "Frank Herbert")
	assert.Contains(t, view, "Shelf | browse | page 1")
	require.Len(t, c.listeners, 1)
}

func TestModel_SearchHeader(t *testing.T) {
	snap := engine.Snapshot{Snapshot: catalog.Snapshot{Mode: catalog.ModeSearch, SearchTerm: "dune", CurrentPage: 1}}
	m, _ := newTestModel(t, snap)

	assert.Contains(t, m.View(), `Shelf | search "dune" | page 2`)
}

func TestModel_RefreshOnChange(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})
	assert.NotContains(t, m.View(), "Hyperion")

	c.mu.Lock()
	c.snap = engine.Snapshot{Snapshot: catalog.Snapshot{Visible: books()}}
	c.mu.Unlock()

	_, cmd := m.Update(changedMsg{})
	assert.NotNil(t, cmd, "model keeps listening after a change")
	assert.Contains(t, m.View(), "Hyperion")
}

func TestModel_ListenerWakesInbox(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	c.listeners[0](engine.Snapshot{})

	assert.Equal(t, changedMsg{}, m.inbox.wait(context.Background())())
}

func TestModel_InboxWaitEndsWithContext(t *testing.T) {
	inbox := NewInbox()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, inbox.wait(ctx)())
}

func TestModel_PageNavigation(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	_, cmd := m.Update(key("right"))
	exec(t, cmd)
	_, cmd = m.Update(key("left"))
	exec(t, cmd)
	_, cmd = m.Update(key("r"))
	exec(t, cmd)

	assert.Equal(t, []string{"next", "prev", "load"}, c.Calls())
}

func TestModel_EnterFetchesRecommendations(t *testing.T) {
	snap := engine.Snapshot{Snapshot: catalog.Snapshot{Visible: books()}}
	m, c := newTestModel(t, snap)

	_, cmd := m.Update(key("enter"))
	exec(t, cmd)

	assert.Equal(t, []string{"Dune"}, c.titles)
}

func TestModel_EnterWithoutBooks(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	_, cmd := m.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.Empty(t, c.Calls())
}

func TestModel_EscClearsSelection(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	m.Update(key("esc"))

	assert.Equal(t, []string{"clear"}, c.Calls())
}

func TestModel_TypingUpdatesSearchTerm(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	m.Update(key("/"))
	require.True(t, m.search.Focused())

	m.Update(key("d"))
	m.Update(key("u"))
	m.Update(key("esc"))

	assert.False(t, m.search.Focused())
	assert.Equal(t, []string{"d", "du"}, c.terms)
	assert.NotContains(t, c.Calls(), "clear", "esc leaves the search box first")
}

func TestModel_EnterInSearchBoxSearchesNow(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	m.Update(key("/"))
	m.Update(key("x"))
	_, cmd := m.Update(key("enter"))
	exec(t, cmd)

	assert.False(t, m.search.Focused())
	assert.Equal(t, []string{"search", "search now"}, c.Calls())
	assert.Equal(t, []string{"x", "x"}, c.terms)
}

func TestModel_RecommendationPanel(t *testing.T) {
	snap := engine.Snapshot{Snapshot: catalog.Snapshot{
		SelectedTitle:   "Dune",
		Recommendations: map[string][]catalog.Book{"Dune": {books()[1]}},
	}}
	m, _ := newTestModel(t, snap)

	view := m.View()
	assert.Contains(t, view, "Because you picked Dune")
	assert.Contains(t, view, "- Hyperion (1989)")
}

func TestModel_RecommendationPanelLoading(t *testing.T) {
	snap := engine.Snapshot{Snapshot: catalog.Snapshot{
		SelectedTitle:          "Dune",
		LoadingRecommendations: map[string]bool{"Dune": true},
	}}
	m, _ := newTestModel(t, snap)

	assert.Contains(t, m.View(), "Loading recommendations...")
}

func TestModel_Toasts(t *testing.T) {
	m, _ := newTestModel(t, engine.Snapshot{})

	m.inbox.Notify(notify.Notification{Message: "Could not fetch books", Severity: notify.SeverityError})
	assert.Contains(t, m.View(), "Could not fetch books")

	m.Update(key("x"))
	assert.NotContains(t, m.View(), "Could not fetch books")
}

func TestModel_StatusLine(t *testing.T) {
	snap := engine.Snapshot{Snapshot: catalog.Snapshot{
		IsLoading: true,
		Err:       &catalog.Failure{Op: "list books", Message: "list books: HTTP 502"},
	}}
	m, _ := newTestModel(t, snap)

	view := m.View()
	assert.Contains(t, view, "Loading books...")
	assert.Contains(t, view, "Last error: list books: HTTP 502")
}

func TestModel_QuitUnsubscribes(t *testing.T) {
	m, c := newTestModel(t, engine.Snapshot{})

	_, cmd := m.Update(key("q"))

	assert.Equal(t, tea.Quit(), exec(t, cmd))
	assert.Equal(t, []string{"unsubscribe"}, c.Calls())
}

func TestRun(t *testing.T) {
	original := runProgram
	t.Cleanup(func() { runProgram = original })

	var got tea.Model
	runProgram = func(m tea.Model) (tea.Model, error) {
		got = m
		return m, nil
	}

	c := &fakeCatalog{}
	require.NoError(t, Run(context.Background(), c, NewInbox()))
	assert.IsType(t, &Model{}, got)
	assert.Equal(t, []string{"unsubscribe"}, c.Calls())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long  title here", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
