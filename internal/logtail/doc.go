// Package logtail reads the tail of liker's JSON log for the log pane.
//
// # Overview
//
// liker writes zap production JSON to <log_dir>/liker.log. The terminal UI
// shows the most recent entries; this package extracts and parses them.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays O(maxLines) however large the log grows:
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//
// A missing file is not an error; it just has no lines yet.
//
// # Parsing
//
// Parse turns one zap line into an Entry with the standard keys (ts, level,
// msg, caller) lifted out and everything else kept in Fields. ISO8601 and
// epoch-seconds timestamps are both understood. Non-JSON lines, such as a
// panic trace, are kept verbatim in Raw.
//
//	entries, _ := logtail.ReadEntries(path, 200)
//	for _, e := range entries {
//		fmt.Println(e) // 21:01:05 WARN  like flush failed creator=alice
//	}
package logtail
