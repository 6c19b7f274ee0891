package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Snapshot represents the latest book list available to a view.
type Snapshot struct {
	Books               []catalog.Book
	Category            string
	HasData             bool
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the book with id, if present.
func (s Snapshot) Find(id string) (catalog.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return catalog.Book{}, false
}

// FetchTicket identifies one issued list fetch.
type FetchTicket struct {
	Seq      uint64
	Category string
}

// Store coordinates concurrent updates to one book list. Fetch results are
// applied in issue order: a response for an older ticket, or for a category
// that is no longer selected, is dropped. Pending availability toggles are
// overlaid on every snapshot so a refresh cannot undo a newer local action.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64
	applied  uint64

	toggleSeq uint64
	pending   map[string]pendingToggle
}

// SetCategory changes the filter. Fetches issued for another category will be
// discarded when they complete.
func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Category = normalizeCategory(category)
}

// Category returns the current filter ("" means all books).
func (s *Store) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Category
}

// BeginFetch issues a ticket for a fetch of the current category.
func (s *Store) BeginFetch() FetchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return FetchTicket{Seq: s.issued, Category: s.snapshot.Category}
}

// Update applies the result of the fetch identified by t. When err is non-nil
// the previous data is kept but the error is recorded for visibility. It
// reports whether the result was applied.
func (s *Store) Update(t FetchTicket, books []catalog.Book, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq <= s.applied || t.Category != s.snapshot.Category {
		return false
	}
	s.applied = t.Seq

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Books = cloneBooks(books)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Remove drops a book from the list, e.g. after a confirmed delete.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snapshot.Books[:0]
	for _, b := range s.snapshot.Books {
		if b.ID != id {
			out = append(out, b)
		}
	}
	s.snapshot.Books = out
	delete(s.pending, id)
}

// Snapshot returns a copy of the current snapshot with pending toggles applied.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	for i := range snap.Books {
		if p, ok := s.pending[snap.Books[i].ID]; ok {
			snap.Books[i].Available = p.next
		}
	}
	snap.Loading = s.issued > s.applied
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func normalizeCategory(category string) string {
	if catalog.IsFilterAll(category) {
		return ""
	}
	return strings.TrimSpace(category)
}

func cloneBooks(books []catalog.Book) []catalog.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]catalog.Book, len(books))
	copy(dup, books)
	return dup
}
