// Package state owns the studydesk document and every mutation applied to it.
//
// # Overview
//
// The whole application (curriculum, users, ledger, stats, settings) lives
// in one model.AppState. The Store holds that document in memory, applies
// named commands to it one at a time, persists the result and tells
// subscribers what changed. The terminal UI, the download engine and the
// admin CLI all go through it.
//
// # Architecture
//
//	caller (UI / CLI / download engine)
//	     │  store.AddTopic(...) / store.Dispatch(cmd)
//	     ▼
//	┌──────────────────────── mu ─────────────────────────┐
//	│ Reduce(doc, cmd, env) → Outcome                     │
//	│      ↓ Changed                                       │
//	│ persist.Save(doc)                                    │
//	└──────────────────────────────────────────────────────┘
//	     │  (notifyMu handed over before mu is released)
//	     ▼
//	subscribers(Change)  →  UI refresh, engine timer release, blob cleanup
//
// # Commands
//
// Every operation is an exported command type (AddSubject, ToggleBookmark,
// AdvanceDownload, ...) with an unexported apply method. Reduce is the pure
// transition: it reads the injected Env for the clock and new ids and
// touches nothing but the Document. The Store methods are thin wrappers
// that build a command and dispatch it.
//
// A Document keeps id indexes over subjects, topics, materials and users.
// Commands that add or remove entities rebuild them. If an imported document
// repeats an id, the first entity in traversal order wins.
//
// # Outcomes
//
//   - Changed false: nothing happened. Unknown ids are silent no-ops.
//   - Err: the command was rejected (validation, duplicate user, bad
//     credentials). The document is untouched.
//   - Released: materials whose download timers must stop.
//   - Orphaned: blob keys no longer referenced by the document.
//   - Completed: downloads that reached 100.
//
// # Concurrency Model
//
// One mutex serializes every mutation and its save, so stored documents are
// written in dispatch order and ticks from the download engine can never
// clobber an unrelated edit. Snapshot returns a deep copy. Subscribers run
// synchronously on the dispatching goroutine after the lock is released, in
// dispatch order, and must not dispatch from inside the callback.
//
// # Persistence
//
// Open loads the document from a storage.DocumentStore. A missing or
// unreadable document falls back to model.Seed. A failed save is logged and
// leaves the store Unsaved until the next successful save or Flush; the
// in-memory document stays authoritative.
package state
