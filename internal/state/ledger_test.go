package state

import (
	"errors"
	"testing"
)

func available(t *testing.T, s *Store, id string) bool {
	t.Helper()
	b, ok := s.Snapshot().Find(id)
	if !ok {
		t.Fatalf("book %q missing from snapshot", id)
	}
	return b.Available
}

func TestLedger_AppliedKeepsNewValue(t *testing.T) {
	var s Store
	s.Update(s.BeginFetch(), books("a"), nil)

	ticket, ok := s.BeginToggle("a", false)
	if !ok {
		t.Fatal("BeginToggle() ok = false")
	}
	if ticket.Prev != true || ticket.Next != false {
		t.Fatalf("ticket = %+v, want prev=true next=false", ticket)
	}
	if available(t, &s, "a") {
		t.Fatal("optimistic value not shown while pending")
	}
	if !s.Pending("a") {
		t.Fatal("Pending(a) = false while in flight")
	}

	if got := s.ResolveToggle(ticket, nil); got != Applied {
		t.Fatalf("ResolveToggle() = %v, want applied", got)
	}
	if available(t, &s, "a") || s.Pending("a") {
		t.Fatal("applied value lost or still pending")
	}
}

func TestLedger_FailureReverts(t *testing.T) {
	var s Store
	s.Update(s.BeginFetch(), books("a"), nil)

	ticket, _ := s.BeginToggle("a", false)
	if got := s.ResolveToggle(ticket, errors.New("nope")); got != Reverted {
		t.Fatalf("ResolveToggle() = %v, want reverted", got)
	}
	if !available(t, &s, "a") {
		t.Fatal("value not restored after failure")
	}
}

func TestLedger_SupersededFailureIsNoop(t *testing.T) {
	var s Store
	s.Update(s.BeginFetch(), books("a"), nil)

	first, _ := s.BeginToggle("a", false)
	second, _ := s.BeginToggle("a", true)
	if second.Prev != false {
		t.Fatalf("second.Prev = %v, want the pending value false", second.Prev)
	}

	if got := s.ResolveToggle(first, errors.New("late failure")); got != Superseded {
		t.Fatalf("ResolveToggle(first) = %v, want superseded", got)
	}
	if !available(t, &s, "a") || !s.Pending("a") {
		t.Fatal("superseded failure disturbed the newer pending toggle")
	}

	if got := s.ResolveToggle(second, nil); got != Applied {
		t.Fatalf("ResolveToggle(second) = %v, want applied", got)
	}
	if !available(t, &s, "a") {
		t.Fatal("final value should be true")
	}
}

func TestLedger_SupersededSuccessUpdatesConfirmedValue(t *testing.T) {
	var s Store
	s.Update(s.BeginFetch(), books("a"), nil)

	first, _ := s.BeginToggle("a", false)
	second, _ := s.BeginToggle("a", true)

	s.ResolveToggle(first, nil)
	if got := s.ResolveToggle(second, errors.New("nope")); got != Reverted {
		t.Fatalf("ResolveToggle(second) = %v, want reverted", got)
	}
	// The backend accepted the first change, so that is what shows.
	if available(t, &s, "a") {
		t.Fatal("reverted to stale value instead of the confirmed one")
	}
}

func TestLedger_RefreshDoesNotClobberPending(t *testing.T) {
	var s Store
	s.Update(s.BeginFetch(), books("a"), nil)

	ticket, _ := s.BeginToggle("a", false)
	// A poll lands with the server's pre-toggle view.
	s.Update(s.BeginFetch(), books("a"), nil)
	if available(t, &s, "a") {
		t.Fatal("refresh overwrote pending toggle")
	}
	s.ResolveToggle(ticket, nil)
	if available(t, &s, "a") {
		t.Fatal("applied toggle lost after refresh")
	}
}

func TestLedger_UnknownBook(t *testing.T) {
	var s Store
	if _, ok := s.BeginToggle("ghost", true); ok {
		t.Fatal("BeginToggle on unknown book should fail")
	}

	s.Update(s.BeginFetch(), books("a"), nil)
	ticket, _ := s.BeginToggle("a", false)
	s.Remove("a")
	if got := s.ResolveToggle(ticket, nil); got != Unknown {
		t.Fatalf("ResolveToggle() = %v, want unknown", got)
	}
}
