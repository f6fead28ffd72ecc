package favorite

import "sync"

// Affordance is the state of one listing's favorite control.
type Affordance int

const (
	IdleUnfavorited Affordance = iota
	IdleFavorited
	Pending
)

func (a Affordance) String() string {
	switch a {
	case IdleFavorited:
		return "idle_favorited"
	case Pending:
		return "pending"
	default:
		return "idle_unfavorited"
	}
}

// Set holds the listing ids one viewer has favorited, plus the listings with
// a toggle in flight. It is safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	pending map[string]struct{}
}

func NewSet(listingIDs ...string) *Set {
	s := &Set{
		ids:     make(map[string]struct{}, len(listingIDs)),
		pending: make(map[string]struct{}),
	}
	for _, id := range listingIDs {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *Set) Contains(listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[listingID]
	return ok
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Set) State(listingID string) Affordance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[listingID]; ok {
		return Pending
	}
	if _, ok := s.ids[listingID]; ok {
		return IdleFavorited
	}
	return IdleUnfavorited
}

// begin marks listingID pending. It reports false when a toggle is already
// in flight for it.
func (s *Set) begin(listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[listingID]; ok {
		return false
	}
	s.pending[listingID] = struct{}{}
	return true
}

// finish clears the pending mark and records the settled membership.
func (s *Set) finish(listingID string, favorited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, listingID)
	if favorited {
		s.ids[listingID] = struct{}{}
	} else {
		delete(s.ids, listingID)
	}
}

// abort clears the pending mark and leaves membership as it was.
func (s *Set) abort(listingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, listingID)
}

// clear drops every id, as after a sign-out. Pending marks other than
// listingID survive so their toggles can still settle.
func (s *Set) clear(listingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
	delete(s.pending, listingID)
}

// IsFavorited reports whether listingID is in set. A nil set is empty.
func IsFavorited(listingID string, set *Set) bool {
	if set == nil {
		return false
	}
	return set.Contains(listingID)
}
