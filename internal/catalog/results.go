package catalog

// ResultSet is one independently paginated view of the catalog: the browse
// listing or the results of the current search.
type ResultSet struct {
	store  *EntityStore
	page   int
	loaded map[int]bool
}

// NewResultSet returns an empty result set positioned at page 0.
func NewResultSet() *ResultSet {
	return &ResultSet{
		store:  NewEntityStore(),
		loaded: make(map[int]bool),
	}
}

// Page returns the current page.
func (r *ResultSet) Page() int {
	return r.page
}

// SetPage moves to page p by explicit navigation, clamping at 0.
func (r *ResultSet) SetPage(p int) int {
	if p < 0 {
		p = 0
	}
	r.page = p
	return r.page
}

// Ratchet advances the page to p when p is ahead of the current page.
func (r *ResultSet) Ratchet(p int) bool {
	if p > r.page {
		r.page = p
		return true
	}
	return false
}

// Apply merges a fetched page and ratchets the current page forward.
func (r *ResultSet) Apply(page int, books []Book) int {
	added := r.store.Merge(books)
	r.loaded[page] = true
	r.Ratchet(page)
	return added
}

// Add merges books that did not come from a page fetch, such as a newly
// created book.
func (r *ResultSet) Add(books ...Book) int {
	return r.store.Merge(books)
}

// Satisfied reports whether page p can be rendered without a fetch.
func (r *ResultSet) Satisfied(p int) bool {
	if r.loaded[p] {
		return true
	}
	return r.store.Len() >= (p+1)*PageSize
}

// PageBooks returns the PageSize slice of the ordered sequence for page p.
func (r *ResultSet) PageBooks(p int) []Book {
	return r.store.Slice(p*PageSize, (p+1)*PageSize)
}

// Store exposes the underlying entity store.
func (r *ResultSet) Store() *EntityStore {
	return r.store
}

// Reset empties the set and returns it to page 0.
func (r *ResultSet) Reset() {
	r.store.Reset()
	r.page = 0
	r.loaded = make(map[int]bool)
}
