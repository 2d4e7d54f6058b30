package models

import (
	"fmt"
	"time"
)

// Difficulty is a single beatmap within a set. Immutable once fetched.
type Difficulty struct {
	Name     string  `json:"name"`
	Stars    float64 `json:"stars"`
	Length   int     `json:"length"` // total length in seconds
	Spinners int     `json:"spinners"`
	Mode     int     `json:"mode_int"`
}

// Beatmapset is one tracked content item.
//
// Difficulties are kept sorted descending by star rating (stable, remote
// order breaks ties); Mode is the mode of the highest-rated difficulty and
// Modes the distinct modes across all difficulties, in that same order.
type Beatmapset struct {
	ID           string       `json:"id"`
	Artist       string       `json:"artist"`
	Title        string       `json:"title"`
	Creator      string       `json:"creator"`
	Status       Status       `json:"status"`
	Mode         string       `json:"mode"`
	Modes        []string     `json:"modes"`
	Difficulties []Difficulty `json:"difficulties"`
	Monitored    bool         `json:"monitored"`
	AddedAt      time.Time    `json:"added_at"`
	LastChecked  time.Time    `json:"last_checked,omitzero"` // zero when never checked
}

// Validate checks that the set carries the minimum data the store requires.
func (b *Beatmapset) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("beatmapset id is required")
	}
	return nil
}

// Label returns the "Artist - Title" display form used in history entries
// and status messages.
func (b *Beatmapset) Label() string {
	return fmt.Sprintf("%s - %s", b.Artist, b.Title)
}

// Clone returns a deep copy of the set. The monitor cycle operates on clones
// so caller edits during a cycle never corrupt in-progress comparisons.
func (b Beatmapset) Clone() Beatmapset {
	dup := b
	dup.Modes = append([]string(nil), b.Modes...)
	dup.Difficulties = append([]Difficulty(nil), b.Difficulties...)
	return dup
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T any] interface {
	Create(model T) error     // Create inserts a new model into the database
	Get(id string) (T, error) // Get retrieves a model by its ID
	Update(model T) error     // Update modifies an existing model in the database
	Delete(id string) error   // Delete removes a model from the database by its ID
	List() ([]T, error)       // List retrieves all stored models
}
