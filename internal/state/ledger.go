package state

// ToggleOutcome is the resolution of an optimistic availability change.
type ToggleOutcome int

const (
	// Applied: the backend accepted the change and it is now the confirmed value.
	Applied ToggleOutcome = iota
	// Reverted: the backend rejected the change; the confirmed value shows again.
	Reverted
	// Superseded: a newer toggle for the same book is still pending, so this
	// result only updates the confirmed value underneath it (on success) or is
	// ignored (on failure).
	Superseded
	// Unknown: the book left the list while the request was in flight.
	Unknown
)

func (o ToggleOutcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Reverted:
		return "reverted"
	case Superseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// ToggleTicket identifies one optimistic availability change.
type ToggleTicket struct {
	BookID string
	Seq    uint64
	Prev   bool
	Next   bool
}

type pendingToggle struct {
	seq  uint64
	next bool
}

// BeginToggle records a pending availability change for id and returns its
// ticket. Snapshots show next immediately. ok is false when id is not listed.
func (s *Store) BeginToggle(id string, next bool) (ToggleTicket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ToggleTicket{}, false
	}
	prev := s.snapshot.Books[idx].Available
	if p, ok := s.pending[id]; ok {
		prev = p.next
	}
	if s.pending == nil {
		s.pending = make(map[string]pendingToggle)
	}
	s.toggleSeq++
	s.pending[id] = pendingToggle{seq: s.toggleSeq, next: next}
	return ToggleTicket{BookID: id, Seq: s.toggleSeq, Prev: prev, Next: next}, true
}

// ResolveToggle settles the ticket with the backend's answer (nil err means
// success). Only the newest ticket for a book changes what is displayed.
func (s *Store) ResolveToggle(t ToggleTicket, err error) ToggleOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(t.BookID)
	p, hasPending := s.pending[t.BookID]
	latest := hasPending && p.seq == t.Seq

	if idx < 0 {
		if latest {
			delete(s.pending, t.BookID)
		}
		return Unknown
	}
	if err == nil {
		s.snapshot.Books[idx].Available = t.Next
	}
	if !latest {
		return Superseded
	}
	delete(s.pending, t.BookID)
	if err != nil {
		return Reverted
	}
	return Applied
}

// Pending reports whether id has an unresolved toggle.
func (s *Store) Pending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[id]
	return ok
}

func (s *Store) indexLocked(id string) int {
	for i, b := range s.snapshot.Books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
