package models

import "time"

// HistoryCap is the maximum number of retained history entries. The list is
// newest-first; inserting past the cap evicts the oldest entry.
const HistoryCap = 100

// HistoryEntry records one detected status transition. Entries are created
// exactly once per transition and are append-only.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	SetID        string    `json:"beatmapset_id"`
	Title        string    `json:"title"` // "Artist - Title"
	Creator      string    `json:"creator"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	ApprovedDate string    `json:"approved_date,omitempty"` // empty when the API reported none
	Mode         string    `json:"mode"`
}

// PushHistory prepends entry and truncates the list to [HistoryCap].
// The input slice is not modified.
func PushHistory(entries []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > HistoryCap {
		out = out[:HistoryCap]
	}
	return out
}
