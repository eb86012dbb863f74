package catalog

// Sequencer tags requests with increasing sequence numbers so that only the
// newest request for a key may apply its response. It is not safe for
// concurrent use; the owner of State serializes access.
type Sequencer[K comparable] struct {
	next   uint64
	latest map[K]uint64
}

// NewSequencer returns an empty sequencer.
func NewSequencer[K comparable]() *Sequencer[K] {
	return &Sequencer[K]{latest: make(map[K]uint64)}
}

// Issue returns a new sequence number and records it as the latest for key.
func (s *Sequencer[K]) Issue(key K) uint64 {
	s.next++
	s.latest[key] = s.next
	return s.next
}

// IsLatest reports whether seq is still the newest number issued for key.
func (s *Sequencer[K]) IsLatest(key K, seq uint64) bool {
	latest, ok := s.latest[key]
	return ok && latest == seq
}

// Reset supersedes every outstanding sequence number. Numbers keep growing
// so a reset never lets an old number match again.
func (s *Sequencer[K]) Reset() {
	s.latest = make(map[K]uint64)
}
