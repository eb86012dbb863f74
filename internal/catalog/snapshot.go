package catalog

// Snapshot is a read-only copy of the state handed to renderers.
type Snapshot struct {
	Mode        Mode
	SearchTerm  string
	CurrentPage int

	// Books is the ordered sequence of the active result set and Visible
	// its slice for CurrentPage.
	Books   []Book
	Visible []Book

	IsLoading   bool
	IsSearching bool
	IsCreating  bool
	IsRating    bool

	// Created is the book returned by the last successful create, if any.
	Created *Book

	SelectedTitle          string
	Recommendations        map[string][]Book
	LoadingRecommendations map[string]bool

	Err *Failure
}

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	active := s.active()
	return Snapshot{
		Mode:                   s.Mode(),
		SearchTerm:             s.searchTerm,
		CurrentPage:            active.Page(),
		Books:                  active.Store().Books(),
		Visible:                active.PageBooks(active.Page()),
		IsLoading:              s.loadsInFlight > 0,
		IsSearching:            s.searchesInFlight > 0,
		IsCreating:             s.creating > 0,
		IsRating:               s.rating > 0,
		Created:                s.createdCopy(),
		SelectedTitle:          s.selectedTitle,
		Recommendations:        s.recommendations.Resolved(),
		LoadingRecommendations: s.recommendations.LoadingFlags(),
		Err:                    s.LastError(),
	}
}

func (s *State) createdCopy() *Book {
	if s.created == nil {
		return nil
	}
	b := cloneBook(*s.created)
	return &b
}

// SelectedRecommendations returns the cached list for the selected title.
func (s Snapshot) SelectedRecommendations() []Book {
	if s.SelectedTitle == "" {
		return nil
	}
	return s.Recommendations[s.SelectedTitle]
}

// RecommendationsLoading reports whether the selected title is still loading.
func (s Snapshot) RecommendationsLoading() bool {
	return s.SelectedTitle != "" && s.LoadingRecommendations[s.SelectedTitle]
}
