// Package app provides the orchestration layer for liker.
//
// # Overview
//
// This package wires together configuration, logging, the cookie store, the
// LikeCoin client, the like button widget, the resync poller and the UI. It
// is the composition root: every dependency is created and connected here.
//
// # Architecture
//
//  1. Load configuration from ~/.config/liker/config.toml and LIKER_* variables
//  2. Build the zap logger writing to <log_dir>/liker.log
//  3. Open the SQLite cookie jar at <state_dir>/cookies.db
//  4. Create the likeco client with the jar and the auth token attached
//  5. Load the creator profile (a failure here is *engagement.NotFoundError)
//  6. Create and mount the widget: cookie probe, then the first status sync
//  7. Launch the resync poller and start the TUI until the user quits
//
// # Data Flow
//
//	┌──────────────┐
//	│   Open()     │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()            Read config + env
//	       ├─────> logging.New()            File logger
//	       ├─────> cookiestore.Open()       Persistent cookie jar
//	       ├─────> likeco.NewClient()       REST client
//	       ├─────> engagement.LoadProfile() Creator profile
//	       ├─────> engagement.New/Mount()   Widget + first sync
//	       └─────> state.Store.Update()     Sync health
//
//	Run() adds:
//	       ├─────> StartPoller()            Periodic Sync with backoff
//	       └─────> ui.Run()                 Start TUI (blocks)
//
// # Polling Behavior
//
// With resync_interval set, the poller re-runs Widget.Sync and records the
// outcome in state.Store. Consecutive failures double the wait, capped at five
// minutes; the first success resets it. A zero interval disables the poller.
//
// # Error Handling
//
// Fatal errors (returned from Open and Run):
//   - Invalid configuration
//   - Cookie store that cannot be opened
//   - Creator profile that cannot be loaded
//
// Recoverable errors (logged, recorded in the store):
//   - Status sync failures, including the first one
//   - Mutation failures inside the widget
//
// # Shutdown
//
// Session.Close sends unsent likes, stops the widget's background work, closes
// the cookie database and syncs the logger.
package app
