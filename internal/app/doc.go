// Package app is the composition root for shelf.
//
// # Overview
//
// Open loads configuration, builds the logger, opens local storage and
// creates the catalog client. The resulting Env is shared by the TUI (Run)
// and by the one-shot CLI commands in cmd/shelf.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Open()          config, logger, storage, session, client
//	       ├─────> CountVisit()    bump the local visit counter
//	       ├─────> NewFeeds()      one state.Feed per list view
//	       ├─────> Poller.Start()  refresh the active feed
//	       └─────> ui.Run()        start TUI (blocks)
//
//	Poller loop:
//	┌─────────────────────────────────────────┐
//	│ ticker or kick                          │
//	│  └─> active feed.Refresh()              │
//	│      └─> store.Update()  (ticketed)     │
//	│          └─> UI reads store.Snapshot()  │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// Only the feed of the visible view is refreshed, every PollEvery (default
// 60 seconds). Activating a feed or pressing refresh kicks an immediate
// fetch; kicks that arrive while one is queued coalesce. Failures are logged
// and recorded in the feed's store, and polling continues.
//
// # Error Handling
//
// Run returns configuration, logger, storage and client setup errors. Fetch
// failures during polling are never fatal.
package app
