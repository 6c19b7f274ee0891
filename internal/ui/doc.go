// Package ui provides the terminal interface for shelf.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds every view's state and is
// updated only from Update; network calls run as tea.Cmds and report back as
// messages. Book lists are never fetched by the UI directly: each list view
// has a state.Feed, the shared scheduler refreshes whichever feed is active,
// and the model copies the feed's snapshot on every UI tick.
//
// # Views
//
//   - Home: recently added books and the local visit counter
//   - All Books / Explore: the catalog with a category filter and local search
//   - Favorites: books whose ids are in the local favorites list
//   - Book detail: one book with a favorite toggle
//   - Login / Sign Up: credential forms validated before any request
//   - Profile, Add Books, Manage Books: admin-only views
//
// Navigation always passes through nav.Resolve, so an admin-only view asked
// for by a non-admin session lands on Home.
//
// # Key Bindings
//
//   - 1-4: navbar links for the current session
//   - j/k, g/G, enter: move through lists and open a book
//   - c/C, x: next/previous category, reset to All Books
//   - /: search titles and authors
//   - f: toggle favorite (detail), remove favorite (favorites list)
//   - a, d: toggle availability, delete (manage view)
//   - r: refresh now
//   - L: log out
//   - T: cycle theme, ?: help, q or ctrl+c: quit
package ui
