// Package config loads studydesk runtime settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. A .env file in the working directory is loaded if present
//  2. The TOML file at the given path, or ~/.config/studydesk/config.toml
//  3. STUDYDESK_* environment variables override the file
//  4. Missing or empty fields fall back to defaults
//
// A missing config file is not an error.
//
// # Default Values
//
//   - data_dir: ~/.local/share/studydesk
//   - backend: file (file, redis or memory)
//   - document_file: <data_dir>/document.json
//   - blob_file: <data_dir>/blobs.db
//   - redis_prefix: studydesk
//   - log_file: <data_dir>/studydesk.log
//   - log_mode: development
//   - download_tick: 400ms
//
// # TOML Format
//
//	data_dir = "~/.local/share/studydesk"
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	download_tick = "250ms"
//
// # Environment Overrides
//
//   - STUDYDESK_BACKEND
//   - STUDYDESK_DATA_DIR
//   - STUDYDESK_REDIS_ADDR
//   - STUDYDESK_REDIS_PASSWORD
//
// # Error Handling
//
// Load returns errors for unreadable or malformed files, unknown backends,
// a redis backend without an address and non-positive download ticks.
package config
