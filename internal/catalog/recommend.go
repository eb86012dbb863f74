package catalog

// EntryStatus describes a recommendation cache entry.
type EntryStatus int

const (
	// EntryAbsent means the title was never resolved.
	EntryAbsent EntryStatus = iota
	// EntryLoading means a fetch for the title is in flight.
	EntryLoading
	// EntryResolved means the list is cached for the rest of the session.
	EntryResolved
)

type recommendationEntry struct {
	books    []Book
	resolved bool
	loading  bool
}

// RecommendationCache memoizes recommendation lists by exact title.
// Resolved entries never expire.
type RecommendationCache struct {
	entries map[string]*recommendationEntry
}

// NewRecommendationCache returns an empty cache.
func NewRecommendationCache() *RecommendationCache {
	return &RecommendationCache{entries: make(map[string]*recommendationEntry)}
}

func (c *RecommendationCache) entry(title string) *recommendationEntry {
	e, ok := c.entries[title]
	if !ok {
		e = &recommendationEntry{}
		c.entries[title] = e
	}
	return e
}

// Status reports the state of title's entry.
func (c *RecommendationCache) Status(title string) EntryStatus {
	e, ok := c.entries[title]
	switch {
	case !ok:
		return EntryAbsent
	case e.loading:
		return EntryLoading
	case e.resolved:
		return EntryResolved
	default:
		return EntryAbsent
	}
}

// Lookup returns the cached list for title if it was resolved.
func (c *RecommendationCache) Lookup(title string) ([]Book, bool) {
	e, ok := c.entries[title]
	if !ok || !e.resolved {
		return nil, false
	}
	return cloneBooks(e.books), true
}

// MarkLoading sets the loading flag for title.
func (c *RecommendationCache) MarkLoading(title string) {
	c.entry(title).loading = true
}

// ClearLoading clears the loading flag without touching the cached list.
func (c *RecommendationCache) ClearLoading(title string) {
	if e, ok := c.entries[title]; ok {
		e.loading = false
	}
}

// Resolve stores the fetched list and clears the loading flag.
func (c *RecommendationCache) Resolve(title string, books []Book) {
	e := c.entry(title)
	e.books = cloneBooks(books)
	if e.books == nil {
		e.books = []Book{}
	}
	e.resolved = true
	e.loading = false
}

// Loading reports whether a fetch for title is in flight.
func (c *RecommendationCache) Loading(title string) bool {
	e, ok := c.entries[title]
	return ok && e.loading
}

// Resolved returns a copy of every resolved list keyed by title.
func (c *RecommendationCache) Resolved() map[string][]Book {
	out := make(map[string][]Book)
	for title, e := range c.entries {
		if e.resolved {
			out[title] = cloneBooks(e.books)
		}
	}
	return out
}

// LoadingFlags returns the loading flag of every title that was requested.
func (c *RecommendationCache) LoadingFlags() map[string]bool {
	out := make(map[string]bool, len(c.entries))
	for title, e := range c.entries {
		out[title] = e.loading
	}
	return out
}
