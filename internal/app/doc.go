// Package app is the composition root of studydesk.
//
// Open loads the config, builds the logger and opens the configured
// backend:
//
//	file    document.json plus a bbolt file for attachments
//	redis   document and attachments under one key prefix
//	memory  nothing survives the process
//
// and hands it to state.Open. The subcommands of cmd/studydesk work on the
// returned Services directly.
//
// Run adds the download engine and the TUI. The UI and the save-retry loop
// share an errgroup; quitting the UI cancels the loop, and a final Flush
// writes the document if the last save had failed.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Open()            config, logger, backend, store
//	       ├─────> download.New()    simulated transfers
//	       ├─────> RunSaver()        retries failed saves with backoff
//	       └─────> ui.Run()          TUI (blocks)
package app
