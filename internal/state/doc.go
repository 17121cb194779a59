// Package state shares the button state and resync health between the
// background poller and the terminal UI.
//
// # Overview
//
// The poller runs engagement.Widget.Sync on an interval and records the
// outcome here. The UI reads snapshots on its own tick, so neither side
// blocks the other.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ widget.Sync()  │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  wait/backoff  │            │  render button  │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	// Success: replace state, clear error
//	store.Update(&st, nil)
//	→ Engagement = st, LastError = nil, ConsecutiveFailures = 0
//
//	// Failed sync that still applied some reads
//	store.Update(&st, err)
//	→ Engagement = st, LastError = err, ConsecutiveFailures++
//
//	// Failure with nothing new
//	store.Update(nil, err)
//	→ Engagement unchanged, LastError = err, ConsecutiveFailures++
//
// IsOffline reports two or more failures in a row; the UI shows it in the
// status line. Sync failures are never shown as button errors.
//
// # Concurrency Model
//
// Update takes the write lock and Snapshot the read lock. Snapshots are
// copies, and the stored error is wrapped so callers never share it.
//
// The zero Store is ready to use.
package state
