// Package models defines the data model for the beatmapset tracker.
//
// The central types are [Beatmapset] (one tracked item), [Difficulty]
// (one beatmap within a set), [Status] (the closed lifecycle enum used by
// the osu! API) and [HistoryEntry] (one recorded status transition).
//
// Values in this package are snapshots: the monitor and browse layers clone
// them on the way in and return updated copies on the way out, so a running
// poll never shares mutable state with caller edits.
package models
