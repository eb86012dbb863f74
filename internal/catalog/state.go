package catalog

import (
	"github.com/lepinkainen/shelf/internal/errors"
)

// Mode selects which result set is shown.
type Mode int

const (
	// ModeBrowse shows the paginated catalog listing.
	ModeBrowse Mode = iota
	// ModeSearch shows results for a non-empty search term.
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "browse"
}

// Failure is the last error recorded by a failed operation.
type Failure struct {
	Op      string
	Kind    errors.Kind
	Message string
}

// NewFailure classifies err for storage in the state.
func NewFailure(op string, err error) *Failure {
	return &Failure{Op: op, Kind: errors.KindOf(err), Message: errors.Message(err, op+" failed")}
}

// State is the catalog state machine. Every mutation is a named transition;
// State does no locking of its own and must be owned by a single writer.
type State struct {
	searchTerm string

	browse    *ResultSet
	search    *ResultSet
	browseSeq *Sequencer[int]
	searchSeq *Sequencer[int]

	loadsInFlight    int
	searchesInFlight int
	creating         int
	rating           int

	selectedTitle   string
	recommendations *RecommendationCache

	created *Book

	lastErr *Failure
}

// NewState returns the zero state: browse mode, page 0, nothing known.
func NewState() *State {
	return &State{
		browse:          NewResultSet(),
		search:          NewResultSet(),
		browseSeq:       NewSequencer[int](),
		searchSeq:       NewSequencer[int](),
		recommendations: NewRecommendationCache(),
	}
}

// Mode returns the mode selected by the current search term.
func (s *State) Mode() Mode {
	if s.searchTerm == "" {
		return ModeBrowse
	}
	return ModeSearch
}

// SearchTerm returns the visible search term.
func (s *State) SearchTerm() string {
	return s.searchTerm
}

func (s *State) active() *ResultSet {
	if s.Mode() == ModeSearch {
		return s.search
	}
	return s.browse
}

// SetSearchTerm updates the visible term. Entering search mode starts from an
// empty search set; leaving it starts from an empty browse set and supersedes
// any search still in flight.
func (s *State) SetSearchTerm(term string) {
	prev := s.Mode()
	s.searchTerm = term
	next := s.Mode()
	if prev == next {
		return
	}
	switch next {
	case ModeSearch:
		s.search.Reset()
		s.searchSeq.Reset()
	case ModeBrowse:
		s.browse.Reset()
		s.browseSeq.Reset()
		s.search.Reset()
		s.searchSeq.Reset()
	}
}

// CurrentPage returns the page of the active result set.
func (s *State) CurrentPage() int {
	return s.active().Page()
}

// SetPage navigates the active result set to p, clamping at 0.
func (s *State) SetPage(p int) int {
	return s.active().SetPage(p)
}

// PageSatisfied reports whether page p of the active set needs no fetch.
func (s *State) PageSatisfied(p int) bool {
	return s.active().Satisfied(p)
}

// StartLoading records a browse fetch for page and returns its sequence number.
func (s *State) StartLoading(page int) uint64 {
	s.loadsInFlight++
	return s.browseSeq.Issue(page)
}

// LoadSucceeded applies a browse page unless a newer request for the same
// page was issued since. It reports whether the response was applied.
func (s *State) LoadSucceeded(seq uint64, page int, books []Book) bool {
	s.loadsInFlight = decrement(s.loadsInFlight)
	if !s.browseSeq.IsLatest(page, seq) {
		return false
	}
	s.browse.Apply(page, books)
	s.lastErr = nil
	return true
}

// LoadFailed records a browse failure unless the request was superseded.
func (s *State) LoadFailed(seq uint64, page int, err error) bool {
	s.loadsInFlight = decrement(s.loadsInFlight)
	if !s.browseSeq.IsLatest(page, seq) {
		return false
	}
	s.lastErr = NewFailure("list books", err)
	return true
}

// StartSearching begins a new search for the current term: the search set is
// emptied, the page returns to 0 and every older search is superseded.
func (s *State) StartSearching() uint64 {
	s.search.Reset()
	s.searchSeq.Reset()
	s.searchesInFlight++
	return s.searchSeq.Issue(0)
}

// StartSearchingPage fetches a further page of the current search.
func (s *State) StartSearchingPage(page int) uint64 {
	s.searchesInFlight++
	return s.searchSeq.Issue(page)
}

// SearchSucceeded applies search results if the request is still current.
func (s *State) SearchSucceeded(seq uint64, page int, books []Book) bool {
	s.searchesInFlight = decrement(s.searchesInFlight)
	if !s.searchSeq.IsLatest(page, seq) {
		return false
	}
	s.search.Apply(page, books)
	s.lastErr = nil
	return true
}

// SearchFailed records a search failure if the request is still current.
func (s *State) SearchFailed(seq uint64, page int, err error) bool {
	s.searchesInFlight = decrement(s.searchesInFlight)
	if !s.searchSeq.IsLatest(page, seq) {
		return false
	}
	s.lastErr = NewFailure("search books", err)
	return true
}

// StartRecommend marks title as loading and selects it.
func (s *State) StartRecommend(title string) {
	s.recommendations.MarkLoading(title)
	s.selectedTitle = title
}

// CachedRecommendations returns the resolved list for title, if any.
func (s *State) CachedRecommendations(title string) ([]Book, bool) {
	return s.recommendations.Lookup(title)
}

// RecommendServedFromCache ends a request answered by the cache.
func (s *State) RecommendServedFromCache(title string) {
	s.recommendations.ClearLoading(title)
}

// RecommendSucceeded caches the list for title.
func (s *State) RecommendSucceeded(title string, books []Book) {
	s.recommendations.Resolve(title, books)
	s.lastErr = nil
}

// RecommendFailed clears the loading flag, records the error and closes the
// selection.
func (s *State) RecommendFailed(title string, err error) {
	s.recommendations.ClearLoading(title)
	s.lastErr = NewFailure("get recommendations", err)
	s.selectedTitle = ""
}

// ClearSelection closes the recommendation panel.
func (s *State) ClearSelection() {
	s.selectedTitle = ""
}

// SelectedTitle returns the title whose recommendations are shown.
func (s *State) SelectedTitle() string {
	return s.selectedTitle
}

// StartCreating records a create request.
func (s *State) StartCreating() {
	s.creating++
}

// CreateSucceeded adds the created book to the active result set and
// remembers the server's copy. An id the set already knows keeps its first
// version in the sequence.
func (s *State) CreateSucceeded(b Book) {
	s.creating = decrement(s.creating)
	s.active().Add(b)
	created := cloneBook(b)
	s.created = &created
	s.lastErr = nil
}

// CreateFailed records a create failure.
func (s *State) CreateFailed(err error) {
	s.creating = decrement(s.creating)
	s.lastErr = NewFailure("create book", err)
}

// StartRating records a rating request.
func (s *State) StartRating() {
	s.rating++
}

// RateSucceeded ends a rating request.
func (s *State) RateSucceeded() {
	s.rating = decrement(s.rating)
	s.lastErr = nil
}

// RateFailed records a rating failure.
func (s *State) RateFailed(err error) {
	s.rating = decrement(s.rating)
	s.lastErr = NewFailure("rate book", err)
}

// LastError returns the most recent failure, or nil.
func (s *State) LastError() *Failure {
	if s.lastErr == nil {
		return nil
	}
	f := *s.lastErr
	return &f
}

func decrement(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}
