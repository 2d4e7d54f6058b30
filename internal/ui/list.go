package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mikueye/mikueye/internal/models"
)

var (
	_ list.Item = setItem{}
	_ list.Item = historyItem{}
)

// setItem wraps [models.Beatmapset] to implement [list.Item].
type setItem struct {
	set models.Beatmapset
}

func (i setItem) FilterValue() string { return i.set.Label() }
func (i setItem) Title() string       { return i.set.Label() }
func (i setItem) Description() string {
	badge := statusStyle(i.set.Status).Render(i.set.Status.String())
	desc := fmt.Sprintf("%s • %s", badge, i.set.Status.Message())
	if !i.set.Monitored {
		desc = fmt.Sprintf("%s • %s", desc, styles.help.Render("paused"))
	}
	if n := len(i.set.Difficulties); n > 0 {
		desc = fmt.Sprintf("%s • %d diffs", desc, n)
	}
	return desc
}

// historyItem wraps [models.HistoryEntry] to implement [list.Item].
type historyItem struct {
	entry models.HistoryEntry
}

func (i historyItem) FilterValue() string { return i.entry.Title }
func (i historyItem) Title() string       { return i.entry.Title }
func (i historyItem) Description() string {
	return fmt.Sprintf("%s → %s • %s",
		i.entry.OldStatus,
		i.entry.NewStatus,
		i.entry.Timestamp.Format("2006-01-02 15:04"),
	)
}
