package tasks

import (
	"fmt"

	"github.com/mikueye/mikueye/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	CycleStart Phase = iota
	CheckSet
	Transition
	CycleDone
	FetchPage
	DirectLookup
	FetchCover
)

func (p Phase) String() string {
	switch p {
	case CycleStart:
		return "cycle_start"
	case CheckSet:
		return "check_set"
	case Transition:
		return "transition"
	case CycleDone:
		return "cycle_done"
	case FetchPage:
		return "fetch_page"
	case DirectLookup:
		return "direct_lookup"
	case FetchCover:
		return "fetch_cover"
	default:
		return ""
	}
}

// sendProgress delivers an update without blocking the operation.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func cycleStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CycleStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Checking %d tracked beatmapsets...", total),
	}
}

func checkSetUpdate(step, total int, set *models.Beatmapset) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckSet,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, set.Label()),
	}
}

func transitionUpdate(step, total int, event TransitionEvent) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transition,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s: %s -> %s", event.Entry.Title, event.Entry.OldStatus, event.Entry.NewStatus),
		Data:    event,
	}
}

func cycleDoneUpdate(result *CycleResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CycleDone,
		Step:    result.Checked,
		Total:   result.Checked,
		Message: fmt.Sprintf("Cycle done: %d checked, %d changed, %d failed", result.Checked, result.Changed, result.Failed),
		Data:    result,
	}
}

func fetchPageUpdate(category string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Total:   count,
		Message: fmt.Sprintf("Fetched %d results (%s)", count, category),
	}
}

func directLookupUpdate(setID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DirectLookup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up beatmapset %s...", setID),
	}
}
