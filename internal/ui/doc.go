// Package ui provides the studydesk terminal interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds a deep-copied snapshot of
// the store document and re-reads it whenever the store reports a change.
// Keys call store operations (progress, bookmarks, notes, pins) or the
// download engine directly; the resulting change arrives as a message and
// refreshes the view.
//
// # Views
//
//   - Library: subjects, then topics, then materials, filtered by what the
//     signed-in user may see. Pinned topics sort first.
//   - Material: progress bar, reading position, bookmarks, notes editor and
//     download status for one material.
//   - Search: live results as you type, opening the matching level.
//   - Downloads: in-flight downloads with progress bars, then saved
//     materials.
//
// The header shows the signed-in user, study streak, minutes studied today
// and the active download count.
//
// # Change Delivery
//
// Store subscribers run synchronously inside Dispatch, and key handlers
// dispatch from the Bubble Tea event loop, so the subscriber never blocks
// on the program. It posts into a one-slot mailbox that a forwarding
// goroutine drains into Program.Send.
//
// # Themes
//
// T cycles through Nightfox, Kanagawa and Slate. The choice is saved to the
// preferences file when one is configured.
package ui
