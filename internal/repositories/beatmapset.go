package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/shared"
)

// BeatmapsetRepository implements models.Repository[models.Beatmapset] for the tracked library.
//
// The primary key is the osu! beatmapset id; difficulty and mode lists are
// stored as JSON columns.
type BeatmapsetRepository struct {
	db *sql.DB
}

// NewBeatmapsetRepository creates a new BeatmapsetRepository with the given database connection
func NewBeatmapsetRepository(db *sql.DB) *BeatmapsetRepository {
	return &BeatmapsetRepository{db: db}
}

// Create inserts a new tracked beatmapset with a generated sequence
func (r *BeatmapsetRepository) Create(set models.Beatmapset) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "beatmapsets")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	modes, difficulties, err := encodeLists(&set)
	if err != nil {
		return err
	}

	if set.AddedAt.IsZero() {
		set.AddedAt = time.Now()
	}

	query := `
		INSERT INTO beatmapsets (id, sequence, artist, title, creator, status, mode, modes, difficulties, monitored, added_at, last_checked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		set.ID,
		sequence,
		set.Artist,
		set.Title,
		set.Creator,
		int(set.Status),
		set.Mode,
		modes,
		difficulties,
		set.Monitored,
		set.AddedAt,
		nullTime(set.LastChecked),
	)
	if err != nil {
		return fmt.Errorf("failed to insert beatmapset: %w", err)
	}

	return nil
}

// Get retrieves a tracked beatmapset by its osu! id
func (r *BeatmapsetRepository) Get(id string) (models.Beatmapset, error) {
	query := `
		SELECT id, artist, title, creator, status, mode, modes, difficulties, monitored, added_at, last_checked
		FROM beatmapsets
		WHERE id = ?
	`

	return scanBeatmapset(r.db.QueryRow(query, id))
}

// Update rewrites the mutable columns of an existing tracked beatmapset
func (r *BeatmapsetRepository) Update(set models.Beatmapset) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	modes, difficulties, err := encodeLists(&set)
	if err != nil {
		return err
	}

	query := `
		UPDATE beatmapsets
		SET artist = ?, title = ?, creator = ?, status = ?, mode = ?, modes = ?, difficulties = ?, monitored = ?, last_checked = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		set.Artist,
		set.Title,
		set.Creator,
		int(set.Status),
		set.Mode,
		modes,
		difficulties,
		set.Monitored,
		nullTime(set.LastChecked),
		set.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update beatmapset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("beatmapset %s: %w", set.ID, shared.ErrNotFound)
	}

	return nil
}

// Delete removes a beatmapset from the tracked library
func (r *BeatmapsetRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM beatmapsets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete beatmapset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("beatmapset %s: %w", id, shared.ErrNotFound)
	}

	return nil
}

// List retrieves the whole tracked library in insertion order
func (r *BeatmapsetRepository) List() ([]models.Beatmapset, error) {
	return r.list("")
}

// ListMonitored retrieves only the sets with monitoring switched on
func (r *BeatmapsetRepository) ListMonitored() ([]models.Beatmapset, error) {
	return r.list("WHERE monitored = 1")
}

func (r *BeatmapsetRepository) list(where string) ([]models.Beatmapset, error) {
	query := fmt.Sprintf(`
		SELECT id, artist, title, creator, status, mode, modes, difficulties, monitored, added_at, last_checked
		FROM beatmapsets
		%s
		ORDER BY sequence ASC
	`, where)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query beatmapsets: %w", err)
	}
	defer rows.Close()

	var sets []models.Beatmapset
	for rows.Next() {
		set, err := scanBeatmapset(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sets, nil
}

// SetMonitored flips the monitoring flag for one set
func (r *BeatmapsetRepository) SetMonitored(id string, monitored bool) error {
	result, err := r.db.Exec("UPDATE beatmapsets SET monitored = ? WHERE id = ?", monitored, id)
	if err != nil {
		return fmt.Errorf("failed to update monitored flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("beatmapset %s: %w", id, shared.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBeatmapset(row rowScanner) (models.Beatmapset, error) {
	var (
		set          models.Beatmapset
		status       int
		modes        string
		difficulties string
		lastChecked  sql.NullTime
	)

	err := row.Scan(&set.ID, &set.Artist, &set.Title, &set.Creator, &status, &set.Mode, &modes, &difficulties, &set.Monitored, &set.AddedAt, &lastChecked)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Beatmapset{}, fmt.Errorf("beatmapset: %w", shared.ErrNotFound)
	}
	if err != nil {
		return models.Beatmapset{}, fmt.Errorf("failed to scan beatmapset: %w", err)
	}

	set.Status = models.Status(status)
	if lastChecked.Valid {
		set.LastChecked = lastChecked.Time
	}
	if err := json.Unmarshal([]byte(modes), &set.Modes); err != nil {
		return models.Beatmapset{}, fmt.Errorf("failed to decode modes: %w", err)
	}
	if err := json.Unmarshal([]byte(difficulties), &set.Difficulties); err != nil {
		return models.Beatmapset{}, fmt.Errorf("failed to decode difficulties: %w", err)
	}

	return set, nil
}

func encodeLists(set *models.Beatmapset) (modes, difficulties string, err error) {
	m, err := json.Marshal(set.Modes)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode modes: %w", err)
	}
	d, err := json.Marshal(set.Difficulties)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode difficulties: %w", err)
	}
	return string(m), string(d), nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
