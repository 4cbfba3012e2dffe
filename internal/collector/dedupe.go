package collector

import "sync"

// DedupeSet tracks claimed channel names across and within runs. Membership
// only grows; Add is an atomic check-and-insert so concurrent workers cannot
// both claim the same channel.
type DedupeSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewDedupeSet seeds the set, typically from the claimed-channels tab.
func NewDedupeSet(seed []string) *DedupeSet {
	s := &DedupeSet{names: make(map[string]struct{}, len(seed))}
	for _, n := range seed {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether the channel is already claimed.
func (s *DedupeSet) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[name]
	return ok
}

// Add claims the channel, reporting whether this call made the claim.
func (s *DedupeSet) Add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

// Len returns the current membership count.
func (s *DedupeSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}
