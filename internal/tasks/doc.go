// Package tasks runs long playlist operations in the background with progress reporting.
//
// # Bulk Export
//
// [Engine.BulkExport] exports many playlists concurrently:
//
//  1. A producer loads each playlist through the [PlaylistExporter], throttled by a token bucket
//  2. A fixed pool of workers writes each export with the formatter package
//  3. Results are collected and summarized in export_manifest.json
//
// A playlist that fails to load or write is recorded in the manifest and does not stop the run.
//
// # Progress Reporting
//
// Operations accept a send-only [ProgressUpdate] channel. Sends never block: when the
// channel is full the update is dropped. A nil channel disables reporting.
package tasks
