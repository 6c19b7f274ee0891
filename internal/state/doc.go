// Package state provides thread-safe book list state shared between the
// background poller and the UI.
//
// # Overview
//
// Each list view (recent books, the catalog, the admin manage list, favorites)
// owns one Store. The poller writes fetch results into it; the UI reads
// snapshots on its own refresh tick.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ BeginFetch()   │            │                 │
//	│ ListBooks()    │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	└────────────────┘  (mutex)   └─────────────────┘
//
// # Sequencing
//
// BeginFetch issues a monotonically increasing ticket stamped with the
// category selected at that moment. Update applies a result only when its
// ticket is newer than the last applied one and the category still matches,
// so a slow response for an old filter never replaces a newer one.
//
// # Update Semantics
//
//	store.Update(t, books, nil) // replace list, clear error, reset failures
//	store.Update(t, nil, err)   // keep list, record error, count failure
//
// # Optimistic Toggles
//
// BeginToggle flips a book's availability locally and returns a ticket.
// ResolveToggle settles it:
//
//	pending ──ok──→ applied   (value becomes the confirmed one)
//	pending ──err─→ reverted  (confirmed value shows again)
//
// Only the newest ticket per book changes what is displayed; an older
// ticket's failure is ignored. Pending values are overlaid on every snapshot,
// so a list refresh that lands mid-flight does not undo the local change.
//
// The zero Store is ready to use.
package state
