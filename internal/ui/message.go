package ui

import (
	"time"

	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/tasks"
)

type libraryLoadedMsg struct {
	sets []models.Beatmapset
	err  error
}

type historyLoadedMsg struct {
	entries []models.HistoryEntry
	err     error
}

type cycleDoneMsg struct {
	result *tasks.CycleResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type tickMsg time.Time
