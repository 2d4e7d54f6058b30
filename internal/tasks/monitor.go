package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/osuapi"
	"github.com/mikueye/mikueye/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Detailer fetches the current remote state of one beatmapset.
type Detailer interface {
	Beatmapset(ctx context.Context, setID string) (*osuapi.BeatmapsetInfo, error)
}

// TransitionEvent is one detected status change within a cycle.
type TransitionEvent struct {
	Entry       models.HistoryEntry // The history record for this transition
	Terminal    bool                // New status is Ranked, Approved, or Loved
	AutoStopped bool                // Monitoring was switched off by this transition
}

// CycleResult contains all data from one monitor cycle.
type CycleResult struct {
	Sets    []models.Beatmapset // Updated snapshots, in tracked order
	Events  []TransitionEvent   // Transitions, in tracked order
	Checked int                 // Sets fetched this cycle
	Skipped int                 // Sets excluded because monitoring is off
	Failed  int                 // Individual fetch failures
	Changed int                 // Sets whose status changed
	AllDone bool                // Every tracked set reached a terminal status
}

// MonitorOpts contains configuration for a Monitor.
type MonitorOpts struct {
	AutoStop  bool    // Stop monitoring a set once it reaches a terminal status
	Workers   int     // Concurrent detail fetches (default: 4)
	RateLimit float64 // Requests per second (default: 10)
	Logger    *log.Logger
}

// Monitor runs periodic status checks over a tracked library. At most one
// cycle runs at a time; overlapping triggers are rejected, not queued.
type Monitor struct {
	client    Detailer
	logger    *log.Logger
	autoStop  bool
	workers   int
	rateLimit float64
	running   atomic.Bool
	now       func() time.Time
}

// NewMonitor creates a Monitor checking sets through client.
func NewMonitor(client Detailer, opts MonitorOpts) *Monitor {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Monitor{
		client:    client,
		logger:    opts.Logger,
		autoStop:  opts.AutoStop,
		workers:   opts.Workers,
		rateLimit: opts.RateLimit,
		now:       time.Now,
	}
}

// Running reports whether a cycle is currently in flight.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

type fetchResult struct {
	info *osuapi.BeatmapsetInfo
	err  error
}

// RunCycle checks every monitored set once and returns the updated
// snapshots together with any detected transitions.
//
// The input slice is never modified; callers persist the returned sets.
// When credentials are rejected the whole cycle aborts rather than
// recording per-set failures.
func (m *Monitor) RunCycle(ctx context.Context, sets []models.Beatmapset, progress chan<- ProgressUpdate) (*CycleResult, error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, shared.ErrCycleInFlight
	}
	defer m.running.Store(false)

	snapshot := make([]models.Beatmapset, len(sets))
	for i, s := range sets {
		snapshot[i] = s.Clone()
	}

	result := &CycleResult{Sets: snapshot}
	sendProgress(progress, cycleStartUpdate(len(snapshot)))

	results := make([]fetchResult, len(snapshot))
	limiter := rate.NewLimiter(rate.Limit(m.rateLimit), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range snapshot {
		if !snapshot[i].Monitored {
			result.Skipped++
			continue
		}
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				results[i] = fetchResult{err: err}
				return nil
			}
			info, err := m.client.Beatmapset(gctx, snapshot[i].ID)
			results[i] = fetchResult{info: info, err: err}
			if err != nil && isAuthError(err) {
				// Stop remaining fetches; retrying 50 sets with dead
				// credentials just burns the rate budget.
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monitor cycle aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge results sequentially in tracked order so history IDs and event
	// order are deterministic regardless of fetch completion order.
	checkedAt := m.now()
	step := 0
	for i := range snapshot {
		set := &snapshot[i]
		if !set.Monitored {
			continue
		}
		step++
		result.Checked++
		sendProgress(progress, checkSetUpdate(step, len(snapshot), set))

		res := results[i]
		if res.err != nil {
			result.Failed++
			m.logger.Warn("check failed", "set_id", set.ID, "error", res.err)
			continue
		}
		set.LastChecked = checkedAt

		info := res.info
		oldStatus := set.Status
		set.Artist = info.Artist
		set.Title = info.Title
		set.Creator = info.Creator
		set.Mode = info.Mode
		set.Modes = append([]string(nil), info.Modes...)
		set.Difficulties = append([]models.Difficulty(nil), info.Difficulties...)

		if info.Status == oldStatus {
			continue
		}
		set.Status = info.Status
		result.Changed++

		event := TransitionEvent{
			Entry: models.HistoryEntry{
				ID:           shared.GenerateID(),
				Timestamp:    checkedAt,
				SetID:        set.ID,
				Title:        set.Label(),
				Creator:      set.Creator,
				OldStatus:    oldStatus.String(),
				NewStatus:    info.Status.String(),
				ApprovedDate: info.ApprovedDate,
				Mode:         set.Mode,
			},
			Terminal: info.Status.Terminal(),
		}
		if m.autoStop && event.Terminal {
			set.Monitored = false
			event.AutoStopped = true
		}
		result.Events = append(result.Events, event)
		sendProgress(progress, transitionUpdate(step, len(snapshot), event))
	}

	if m.autoStop && result.Changed > 0 {
		result.AllDone = true
		for i := range snapshot {
			if snapshot[i].Monitored {
				result.AllDone = false
				break
			}
		}
	}

	sendProgress(progress, cycleDoneUpdate(result))
	return result, nil
}

// RefreshAll re-fetches every set regardless of its monitored flag. No
// history is produced; this is a bulk metadata reload.
func (m *Monitor) RefreshAll(ctx context.Context, sets []models.Beatmapset) ([]models.Beatmapset, error) {
	snapshot := make([]models.Beatmapset, len(sets))
	for i, s := range sets {
		snapshot[i] = s.Clone()
	}

	results := make([]fetchResult, len(snapshot))
	limiter := rate.NewLimiter(rate.Limit(m.rateLimit), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range snapshot {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				results[i] = fetchResult{err: err}
				return nil
			}
			info, err := m.client.Beatmapset(gctx, snapshot[i].ID)
			results[i] = fetchResult{info: info, err: err}
			if err != nil && isAuthError(err) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh aborted: %w", err)
	}

	checkedAt := m.now()
	for i := range snapshot {
		res := results[i]
		if res.err != nil {
			m.logger.Warn("refresh failed", "set_id", snapshot[i].ID, "error", res.err)
			continue
		}
		updated := res.info.Tracked(snapshot[i].Monitored)
		updated.AddedAt = snapshot[i].AddedAt
		updated.LastChecked = checkedAt
		snapshot[i] = updated
	}
	return snapshot, nil
}

// WatchFuncs supplies the load and persist hooks for a watch loop.
type WatchFuncs struct {
	Load  func() ([]models.Beatmapset, error)       // Read the tracked library before each cycle
	Apply func(result *CycleResult) error           // Persist updated sets and history after each cycle
}

// Watch runs cycles on a fixed interval until the context is cancelled or,
// with auto-stop enabled, until every tracked set reaches a terminal status.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, funcs WatchFuncs, progress chan<- ProgressUpdate) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sets, err := funcs.Load()
		if err != nil {
			return fmt.Errorf("failed to load tracked sets: %w", err)
		}

		result, err := m.RunCycle(ctx, sets, progress)
		switch {
		case errors.Is(err, shared.ErrCycleInFlight):
			// A manual cycle is running; skip this tick.
		case err != nil:
			return err
		default:
			if err := funcs.Apply(result); err != nil {
				return fmt.Errorf("failed to persist cycle: %w", err)
			}
			if result.AllDone {
				m.logger.Info("all tracked sets reached a final status, stopping watch")
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// isAuthError reports whether err means credentials are unusable, as
// opposed to a transient per-set failure.
func isAuthError(err error) bool {
	return errors.Is(err, shared.ErrMissingCredentials) ||
		errors.Is(err, shared.ErrAuthFailed) ||
		errors.Is(err, shared.ErrUnauthorized)
}
