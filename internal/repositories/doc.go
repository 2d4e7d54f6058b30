// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
//
// Key Implementations:
//   - [BeatmapsetRepository] : Tracked beatmapset library with monitored-only listings
//   - [HistoryRepository] : Status transition log, newest-first and capped
//
// Sequence numbers provide stable insertion ordering independent of ids and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
