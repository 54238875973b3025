// Package download simulates material downloads.
//
// There is no network transfer. Each download is a per-material state
// machine driven by a ticker:
//
//	IDLE ──Download──▶ DOWNLOADING ──tick (+4..15)──▶ DOWNLOADING
//	                        │                              │ ≥100
//	                        │ Cancel / Remove / ClearAll   ▼
//	                        ▼                          COMPLETE
//	                    CANCELLED
//
// Every transition is a state command dispatched through the store, so
// ticks are serialized with user edits. The engine subscribes to store
// changes and stops the ticker of any material the store releases, which
// covers cancels, removals, deleted subjects/topics and imports alike.
package download
