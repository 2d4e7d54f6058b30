package repositories

import (
	"database/sql"
	"fmt"

	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/shared"
)

// HistoryRepository persists the status transition log.
//
// Listings are newest-first, and inserts prune the log down to
// [models.HistoryCap] entries.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert appends one transition entry and evicts anything past the cap
func (r *HistoryRepository) Insert(entry models.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = shared.GenerateID()
	}

	sequence, err := NextSequence(r.db, "history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO history (id, sequence, timestamp, beatmapset_id, title, creator, old_status, new_status, approved_date, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		entry.ID,
		sequence,
		entry.Timestamp,
		entry.SetID,
		entry.Title,
		entry.Creator,
		entry.OldStatus,
		entry.NewStatus,
		entry.ApprovedDate,
		entry.Mode,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return r.Prune(models.HistoryCap)
}

// List retrieves all entries, newest first
func (r *HistoryRepository) List() ([]models.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, beatmapset_id, title, creator, old_status, new_status, approved_date, mode
		FROM history
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.SetID, &entry.Title, &entry.Creator, &entry.OldStatus, &entry.NewStatus, &entry.ApprovedDate, &entry.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Prune deletes everything but the newest cap entries
func (r *HistoryRepository) Prune(cap int) error {
	query := `
		DELETE FROM history
		WHERE id NOT IN (SELECT id FROM history ORDER BY sequence DESC LIMIT ?)
	`

	if _, err := r.db.Exec(query, cap); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// DeleteAll clears the entire log
func (r *HistoryRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Import inserts entries from an exported log. Input is newest-first, so
// entries are written oldest-first to keep sequence order consistent.
func (r *HistoryRepository) Import(entries []models.HistoryEntry) (int, error) {
	imported := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if err := r.Insert(entries[i]); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ListMissingApprovedDate returns entries whose approved date was not known
// at transition time, newest first. Used by the backfill task.
func (r *HistoryRepository) ListMissingApprovedDate() ([]models.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, beatmapset_id, title, creator, old_status, new_status, approved_date, mode
		FROM history
		WHERE approved_date = ''
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.SetID, &entry.Title, &entry.Creator, &entry.OldStatus, &entry.NewStatus, &entry.ApprovedDate, &entry.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// SetApprovedDate fills in the approved date for one entry
func (r *HistoryRepository) SetApprovedDate(id, approvedDate string) error {
	result, err := r.db.Exec("UPDATE history SET approved_date = ? WHERE id = ?", approvedDate, id)
	if err != nil {
		return fmt.Errorf("failed to update approved date: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history entry %s: %w", id, shared.ErrNotFound)
	}

	return nil
}
