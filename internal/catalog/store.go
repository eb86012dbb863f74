package catalog

// EntityStore is an insertion-ordered set of books indexed by ID. The order
// slice and the index always hold exactly the same IDs.
type EntityStore struct {
	order []Book
	byID  map[int]Book
}

// NewEntityStore returns an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{byID: make(map[int]Book)}
}

// Merge appends every incoming book whose ID is not yet known and returns how
// many were added. Known IDs keep their first-seen copy and position, so
// merging the same page twice leaves the store unchanged.
func (s *EntityStore) Merge(incoming []Book) int {
	added := 0
	for _, b := range incoming {
		if _, ok := s.byID[b.ID]; ok {
			continue
		}
		b = cloneBook(b)
		s.order = append(s.order, b)
		s.byID[b.ID] = b
		added++
	}
	return added
}

// Len returns the number of known books.
func (s *EntityStore) Len() int {
	return len(s.order)
}

// Get returns the book with the given ID.
func (s *EntityStore) Get(id int) (Book, bool) {
	b, ok := s.byID[id]
	if !ok {
		return Book{}, false
	}
	return cloneBook(b), true
}

// Contains reports whether id is known.
func (s *EntityStore) Contains(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// Books returns a copy of the ordered sequence.
func (s *EntityStore) Books() []Book {
	return cloneBooks(s.order)
}

// Slice returns a copy of order[start:end], clamped to the known range.
func (s *EntityStore) Slice(start, end int) []Book {
	if start < 0 {
		start = 0
	}
	if end > len(s.order) {
		end = len(s.order)
	}
	if start >= end {
		return []Book{}
	}
	return cloneBooks(s.order[start:end])
}

// Reset forgets every book.
func (s *EntityStore) Reset() {
	s.order = nil
	s.byID = make(map[int]Book)
}
