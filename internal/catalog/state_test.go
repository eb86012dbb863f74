package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/shelf/internal/errors"
)

func TestState_Defaults(t *testing.T) {
	s := NewState().Snapshot()

	assert.Equal(t, ModeBrowse, s.Mode)
	assert.Equal(t, 0, s.CurrentPage)
	assert.Empty(t, s.Books)
	assert.Empty(t, s.SelectedTitle)
	assert.False(t, s.IsLoading)
	assert.Nil(t, s.Err)
}

func TestState_OutOfOrderPagesScenario(t *testing.T) {
	s := NewState()

	p0 := s.StartLoading(0)
	require.True(t, s.LoadSucceeded(p0, 0, books(1, 2, 3)))
	assert.Equal(t, []int{1, 2, 3}, ids(s.Snapshot().Books))
	assert.Equal(t, 0, s.CurrentPage())

	duplicate := s.StartLoading(0)
	p1 := s.StartLoading(1)
	require.True(t, s.LoadSucceeded(p1, 1, books(3, 4, 5)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(s.Snapshot().Books))
	assert.Equal(t, 1, s.CurrentPage())

	require.True(t, s.LoadSucceeded(duplicate, 0, books(1, 2, 3)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(s.Snapshot().Books))
	assert.Equal(t, 1, s.CurrentPage(), "ratchet holds")
}

func TestState_SupersededPageRequestIsDiscarded(t *testing.T) {
	s := NewState()

	first := s.StartLoading(0)
	second := s.StartLoading(0)

	assert.False(t, s.LoadSucceeded(first, 0, books(9)))
	assert.Empty(t, s.Snapshot().Books)
	assert.True(t, s.LoadSucceeded(second, 0, books(1)))
	assert.Equal(t, []int{1}, ids(s.Snapshot().Books))
}

func TestState_LoadingFlagTracksInFlightRequests(t *testing.T) {
	s := NewState()

	a := s.StartLoading(0)
	b := s.StartLoading(1)
	assert.True(t, s.Snapshot().IsLoading)

	s.LoadSucceeded(a, 0, books(1))
	assert.True(t, s.Snapshot().IsLoading)

	s.LoadFailed(b, 1, errors.NewTransportError("list books", 500, "boom"))
	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	require.NotNil(t, snap.Err)
	assert.Equal(t, errors.KindTransport, snap.Err.Kind)
	assert.Equal(t, "list books: HTTP 500: boom", snap.Err.Message)
	assert.Equal(t, []int{1}, ids(snap.Books), "failures keep prior results")
}

func TestState_SuccessClearsError(t *testing.T) {
	s := NewState()
	seq := s.StartLoading(0)
	s.LoadFailed(seq, 0, errors.NewTransportError("list books", 500, ""))
	require.NotNil(t, s.LastError())

	seq = s.StartLoading(0)
	s.LoadSucceeded(seq, 0, books(1))

	assert.Nil(t, s.LastError())
}

func TestState_SearchModeIsolation(t *testing.T) {
	s := NewState()
	seq := s.StartLoading(0)
	s.LoadSucceeded(seq, 0, books(1, 2, 3))
	s.SetPage(2)

	s.SetSearchTerm("dune")
	snap := s.Snapshot()
	assert.Equal(t, ModeSearch, snap.Mode)
	assert.Empty(t, snap.Books, "browsed entities are not visible in search mode")
	assert.Equal(t, 0, snap.CurrentPage)

	seq = s.StartSearching()
	require.True(t, s.SearchSucceeded(seq, 0, books(7, 8)))
	assert.Equal(t, []int{7, 8}, ids(s.Snapshot().Books))

	s.SetSearchTerm("")
	snap = s.Snapshot()
	assert.Equal(t, ModeBrowse, snap.Mode)
	assert.Empty(t, snap.Books, "returning to browse starts from an empty set")
	assert.Equal(t, 0, snap.CurrentPage)
}

func TestState_StartSearchingClearsPreviousResults(t *testing.T) {
	s := NewState()
	s.SetSearchTerm("du")
	seq := s.StartSearching()
	s.SearchSucceeded(seq, 0, books(1, 2))

	s.SetSearchTerm("dune")
	assert.Equal(t, []int{1, 2}, ids(s.Snapshot().Books), "results stay until the next search starts")

	s.StartSearching()
	assert.Empty(t, s.Snapshot().Books)
	assert.True(t, s.Snapshot().IsSearching)
}

func TestState_StaleSearchResponseIsDiscarded(t *testing.T) {
	s := NewState()
	s.SetSearchTerm("du")
	old := s.StartSearching()

	s.SetSearchTerm("dune")
	current := s.StartSearching()

	assert.False(t, s.SearchSucceeded(old, 0, books(1, 2)), "older search must not flash")
	assert.Empty(t, s.Snapshot().Books)
	assert.True(t, s.Snapshot().IsSearching)

	assert.True(t, s.SearchSucceeded(current, 0, books(3)))
	assert.Equal(t, []int{3}, ids(s.Snapshot().Books))
	assert.False(t, s.Snapshot().IsSearching)
}

func TestState_SearchAfterLeavingSearchModeIsDiscarded(t *testing.T) {
	s := NewState()
	s.SetSearchTerm("dune")
	seq := s.StartSearching()

	s.SetSearchTerm("")

	assert.False(t, s.SearchSucceeded(seq, 0, books(1)))
	assert.False(t, s.SearchFailed(seq, 0, errors.NewTransportError("search books", 500, "")))
	assert.Nil(t, s.LastError())
}

func TestState_SearchPagination(t *testing.T) {
	s := NewState()
	s.SetSearchTerm("dune")
	seq := s.StartSearching()
	s.SearchSucceeded(seq, 0, books(1, 2))

	next := s.StartSearchingPage(1)
	require.True(t, s.SearchSucceeded(next, 1, books(2, 3)))

	assert.Equal(t, []int{1, 2, 3}, ids(s.Snapshot().Books))
	assert.Equal(t, 1, s.CurrentPage())
}

func TestState_BrowseResponseDuringSearchLandsInBrowseSet(t *testing.T) {
	s := NewState()
	seq := s.StartLoading(0)
	s.SetSearchTerm("dune")

	require.True(t, s.LoadSucceeded(seq, 0, books(1, 2)))
	assert.Empty(t, s.Snapshot().Books)
}

func TestState_RecommendationTransitions(t *testing.T) {
	s := NewState()

	s.StartRecommend("Dune")
	snap := s.Snapshot()
	assert.Equal(t, "Dune", snap.SelectedTitle)
	assert.True(t, snap.RecommendationsLoading())

	s.RecommendSucceeded("Dune", books(4, 5))
	snap = s.Snapshot()
	assert.False(t, snap.RecommendationsLoading())
	assert.Equal(t, []int{4, 5}, ids(snap.SelectedRecommendations()))

	cached, ok := s.CachedRecommendations("Dune")
	require.True(t, ok)
	assert.Len(t, cached, 2)

	s.ClearSelection()
	assert.Empty(t, s.Snapshot().SelectedTitle)
	assert.Nil(t, s.Snapshot().SelectedRecommendations())
}

func TestState_RecommendFailureClosesSelection(t *testing.T) {
	s := NewState()
	s.StartRecommend("Dune")

	s.RecommendFailed("Dune", errors.NewTransportError("get recommendations", 404, ""))

	snap := s.Snapshot()
	assert.Empty(t, snap.SelectedTitle)
	assert.False(t, snap.LoadingRecommendations["Dune"])
	require.NotNil(t, snap.Err)
	assert.Equal(t, "get recommendations", snap.Err.Op)
}

func TestState_CreateAddsToActiveSet(t *testing.T) {
	s := NewState()
	seq := s.StartLoading(0)
	s.LoadSucceeded(seq, 0, books(1))

	s.StartCreating()
	assert.True(t, s.Snapshot().IsCreating)
	s.CreateSucceeded(Book{ID: 99, Title: "New"})

	snap := s.Snapshot()
	assert.False(t, snap.IsCreating)
	assert.Equal(t, []int{1, 99}, ids(snap.Books))
	require.NotNil(t, snap.Created)
	assert.Equal(t, "New", snap.Created.Title)
}

func TestState_CreateWithKnownIDKeepsServerCopy(t *testing.T) {
	s := NewState()
	seq := s.StartLoading(0)
	s.LoadSucceeded(seq, 0, books(1, 2))
	assert.Nil(t, s.Snapshot().Created)

	s.StartCreating()
	s.CreateSucceeded(Book{ID: 1, Title: "Echoed"})

	snap := s.Snapshot()
	assert.Equal(t, []int{1, 2}, ids(snap.Books))
	assert.Equal(t, titleFor(1), snap.Books[0].Title, "first write wins in the sequence")
	require.NotNil(t, snap.Created)
	assert.Equal(t, Book{ID: 1, Title: "Echoed"}, *snap.Created)
}

func TestState_RatingFlags(t *testing.T) {
	s := NewState()

	s.StartRating()
	assert.True(t, s.Snapshot().IsRating)
	s.RateFailed(errors.NewRateLimitError("slow down"))

	snap := s.Snapshot()
	assert.False(t, snap.IsRating)
	require.NotNil(t, snap.Err)
	assert.Equal(t, errors.KindRateLimit, snap.Err.Kind)

	s.StartRating()
	s.RateSucceeded()
	assert.Nil(t, s.Snapshot().Err)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := NewState()
	seq := s.StartLoading(0)
	s.LoadSucceeded(seq, 0, books(1))
	s.RecommendSucceeded("Dune", books(2))

	snap := s.Snapshot()
	snap.Books[0].ID = 500
	snap.Recommendations["Dune"][0].ID = 600

	again := s.Snapshot()
	assert.Equal(t, 1, again.Books[0].ID)
	assert.Equal(t, 2, again.Recommendations["Dune"][0].ID)
}
