// package formatter provides functions to export and import the transition history (JSON, CSV) and render tables for the CLI
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/shared"
)

// historyExport is the on-disk envelope for an exported transition log.
type historyExport struct {
	ExportedAt time.Time             `json:"exported_at"`
	Entries    []models.HistoryEntry `json:"entries"`
}

// HistoryToJSON converts history entries to an indented JSON document
func HistoryToJSON(entries []models.HistoryEntry) ([]byte, error) {
	doc := historyExport{ExportedAt: time.Now(), Entries: entries}
	return shared.MarshalJSON(doc, true)
}

// HistoryFromJSON parses a document produced by [HistoryToJSON]. A bare
// entry array without the envelope is accepted too.
func HistoryFromJSON(data []byte) ([]models.HistoryEntry, error) {
	var doc historyExport
	if err := json.Unmarshal(data, &doc); err == nil && doc.Entries != nil {
		return doc.Entries, nil
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: unrecognized history document: %v", shared.ErrParse, err)
	}
	return entries, nil
}

// HistoryToCSV converts history entries to CSV with columns: Timestamp, SetID, Title, Creator, OldStatus, NewStatus, ApprovedDate, Mode
func HistoryToCSV(entries []models.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Timestamp", "SetID", "Title", "Creator", "OldStatus", "NewStatus", "ApprovedDate", "Mode"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.Timestamp.Format(time.RFC3339),
			entry.SetID,
			entry.Title,
			entry.Creator,
			entry.OldStatus,
			entry.NewStatus,
			entry.ApprovedDate,
			entry.Mode,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteHistoryFile exports entries to path, choosing the format from the
// file extension (.csv writes CSV, anything else JSON).
func WriteHistoryFile(path string, entries []models.HistoryEntry) error {
	var data []byte
	var err error
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		data, err = HistoryToCSV(entries)
	} else {
		data, err = HistoryToJSON(entries)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// ReadHistoryFile imports entries from a JSON export at path
func ReadHistoryFile(path string) ([]models.HistoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return HistoryFromJSON(data)
}

// HistoryTable renders entries as an aligned plain-text table for the CLI
func HistoryTable(entries []models.HistoryEntry) string {
	if len(entries) == 0 {
		return "No status changes recorded.\n"
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%-20s  %-9s  %-40s  %s\n", "Time", "Set", "Title", "Change"))
	for _, entry := range entries {
		title := entry.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		buf.WriteString(fmt.Sprintf("%-20s  %-9s  %-40s  %s -> %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.SetID,
			title,
			entry.OldStatus,
			entry.NewStatus,
		))
	}
	return buf.String()
}

// TrackedTable renders the tracked library as an aligned plain-text table
func TrackedTable(sets []models.Beatmapset) string {
	if len(sets) == 0 {
		return "No tracked beatmapsets.\n"
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%-9s  %-40s  %-10s  %-9s  %s\n", "Set", "Title", "Status", "Monitored", "Message"))
	for _, set := range sets {
		label := set.Label()
		if len(label) > 40 {
			label = label[:37] + "..."
		}
		monitored := "yes"
		if !set.Monitored {
			monitored = "no"
		}
		buf.WriteString(fmt.Sprintf("%-9s  %-40s  %-10s  %-9s  %s\n",
			set.ID,
			label,
			set.Status.String(),
			monitored,
			set.Status.Message(),
		))
	}
	return buf.String()
}
