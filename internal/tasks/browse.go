package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/osuapi"
	"github.com/mikueye/mikueye/internal/shared"
	"golang.org/x/sync/errgroup"
)

// canonicalStatusOrder fixes the interleave order of category streams so
// merged result lists are stable across refreshes.
var canonicalStatusOrder = []models.Status{
	models.StatusRanked,
	models.StatusQualified,
	models.StatusApproved,
	models.StatusLoved,
	models.StatusPending,
	models.StatusWIP,
	models.StatusGraveyard,
}

// defaultCategory is the pseudo-category for the unfiltered search stream
// and for direct id lookups.
const defaultCategory = ""

// Searcher is the API surface the Browser needs.
type Searcher interface {
	Search(ctx context.Context, params osuapi.SearchParams) (*osuapi.SearchPage, error)
	Beatmapset(ctx context.Context, setID string) (*osuapi.BeatmapsetInfo, error)
}

// BrowseParams are the server-side search parameters. Changing any of them
// resets the aggregation.
type BrowseParams struct {
	Query    string
	Mode     string // numeric mode string, "" for all modes
	Statuses []models.Status
	Sort     string
}

// FilterOptions are client-side filters applied at read time. They never
// trigger a network fetch.
type FilterOptions struct {
	Statuses map[models.Status]bool // nil or empty means all statuses pass
	Modes    map[string]bool        // nil or empty means all modes pass
	MinStars float64
	MaxStars float64 // 0 means no upper bound
}

type categoryState struct {
	results   []osuapi.BeatmapsetInfo
	seen      map[string]bool
	cursor    string
	fetched   bool
	exhausted bool
	inflight  bool
}

// Browser aggregates paginated search results across one stream per
// selected status category, merging them round-robin for display.
//
// Every parameter change bumps an internal generation counter; responses
// from a previous generation are discarded on arrival, so stale pages can
// never leak into the current result set.
type Browser struct {
	client Searcher
	logger *log.Logger

	mu         sync.Mutex
	gen        uint64
	params     BrowseParams
	directID   string // non-empty when the query is an id or URL lookup
	categories []string
	streams    map[string]*categoryState
}

// NewBrowser creates a Browser searching through client.
func NewBrowser(client Searcher, logger *log.Logger) *Browser {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	b := &Browser{client: client, logger: logger}
	b.resetLocked()
	return b
}

// SetParams installs new search parameters. It returns true when they
// differ from the current ones, in which case accumulated results are
// cleared and in-flight responses invalidated.
func (b *Browser) SetParams(params BrowseParams) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if equalParams(b.params, params) {
		return false
	}
	b.params = params
	b.resetLocked()
	return true
}

// resetLocked bumps the generation and rebuilds the stream table for the
// current parameters. Callers hold b.mu.
func (b *Browser) resetLocked() {
	b.gen++
	b.directID = shared.ParseBeatmapsetArg(b.params.Query)

	b.categories = b.categories[:0]
	if b.directID != "" || len(b.params.Statuses) == 0 {
		b.categories = append(b.categories, defaultCategory)
	} else {
		selected := make(map[models.Status]bool, len(b.params.Statuses))
		for _, s := range b.params.Statuses {
			selected[s] = true
		}
		for _, s := range canonicalStatusOrder {
			if selected[s] {
				b.categories = append(b.categories, s.SearchCategory())
			}
		}
	}

	b.streams = make(map[string]*categoryState, len(b.categories))
	for _, cat := range b.categories {
		b.streams[cat] = &categoryState{seen: make(map[string]bool)}
	}
}

// Refresh loads the initial results for the current parameters: the first
// page of every category stream after a SetParams reset, or a direct lookup
// when the query is a set id or URL. On an already-loaded aggregation it
// advances the streams the same way LoadMore does.
func (b *Browser) Refresh(ctx context.Context, progress chan<- ProgressUpdate) error {
	b.mu.Lock()
	gen := b.gen
	directID := b.directID
	b.mu.Unlock()

	if directID != "" {
		return b.lookupDirect(ctx, gen, directID, progress)
	}
	return b.fetchAll(ctx, gen, progress)
}

// LoadMore fetches the next page of every stream that still has one.
func (b *Browser) LoadMore(ctx context.Context, progress chan<- ProgressUpdate) error {
	b.mu.Lock()
	gen := b.gen
	directID := b.directID
	b.mu.Unlock()

	if directID != "" {
		return nil
	}
	return b.fetchAll(ctx, gen, progress)
}

func (b *Browser) fetchAll(ctx context.Context, gen uint64, progress chan<- ProgressUpdate) error {
	b.mu.Lock()
	categories := append([]string(nil), b.categories...)
	b.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range categories {
		g.Go(func() error {
			return b.fetchPage(gctx, cat, gen, progress)
		})
	}
	return g.Wait()
}

// fetchPage fetches one page for a category stream. A page belonging to an
// older generation is discarded without touching current state.
func (b *Browser) fetchPage(ctx context.Context, category string, gen uint64, progress chan<- ProgressUpdate) error {
	b.mu.Lock()
	state, ok := b.streams[category]
	if !ok || gen != b.gen || state.inflight || state.exhausted {
		b.mu.Unlock()
		return nil
	}
	state.inflight = true
	params := osuapi.SearchParams{
		Query:  b.params.Query,
		Mode:   b.params.Mode,
		Status: category,
		Sort:   b.params.Sort,
		Cursor: state.cursor,
	}
	b.mu.Unlock()

	page, err := b.client.Search(ctx, params)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		// Parameters changed while this page was in flight.
		return nil
	}
	state.inflight = false
	if err != nil {
		return fmt.Errorf("search failed (%s): %w", displayCategory(category), err)
	}

	state.fetched = true
	for _, set := range page.Sets {
		if state.seen[set.ID] {
			continue
		}
		state.seen[set.ID] = true
		state.results = append(state.results, set)
	}
	state.cursor = page.Cursor
	if page.Cursor == "" {
		state.exhausted = true
	}

	sendProgress(progress, fetchPageUpdate(displayCategory(category), len(page.Sets)))
	return nil
}

// lookupDirect resolves one set id into a single-result list.
func (b *Browser) lookupDirect(ctx context.Context, gen uint64, setID string, progress chan<- ProgressUpdate) error {
	sendProgress(progress, directLookupUpdate(setID))

	info, err := b.client.Beatmapset(ctx, setID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return nil
	}
	state := b.streams[defaultCategory]
	state.fetched = true
	state.exhausted = true
	if err != nil {
		return fmt.Errorf("beatmapset %s lookup failed: %w", setID, err)
	}
	state.results = []osuapi.BeatmapsetInfo{*info}
	state.seen[info.ID] = true
	return nil
}

// Results merges the category streams round-robin in canonical status order
// and applies the client-side filters. The merge is position-based, so it
// is deterministic for a given set of fetched pages.
func (b *Browser) Results(filter FilterOptions) []osuapi.BeatmapsetInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	merged := make([]osuapi.BeatmapsetInfo, 0, 64)
	dedupe := make(map[string]bool)
	for pos := 0; ; pos++ {
		advanced := false
		for _, cat := range b.categories {
			state := b.streams[cat]
			if pos >= len(state.results) {
				continue
			}
			advanced = true
			set := state.results[pos]
			if dedupe[set.ID] {
				continue
			}
			dedupe[set.ID] = true
			if matchesFilter(&set, filter) {
				merged = append(merged, set)
			}
		}
		if !advanced {
			break
		}
	}
	return merged
}

// Exhausted reports whether every stream has been fetched to its end.
func (b *Browser) Exhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, cat := range b.categories {
		state := b.streams[cat]
		if !state.fetched || !state.exhausted {
			return false
		}
	}
	return true
}

func matchesFilter(set *osuapi.BeatmapsetInfo, filter FilterOptions) bool {
	if len(filter.Statuses) > 0 && !filter.Statuses[set.Status] {
		return false
	}
	if len(filter.Modes) > 0 {
		found := false
		for _, mode := range set.Modes {
			if filter.Modes[mode] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.MinStars > 0 || filter.MaxStars > 0 {
		for _, d := range set.Difficulties {
			if d.Stars < filter.MinStars {
				continue
			}
			if filter.MaxStars > 0 && d.Stars > filter.MaxStars {
				continue
			}
			return true
		}
		return false
	}
	return true
}

func displayCategory(category string) string {
	if category == defaultCategory {
		return "any"
	}
	return category
}

func equalParams(a, b BrowseParams) bool {
	if a.Query != b.Query || a.Mode != b.Mode || a.Sort != b.Sort {
		return false
	}
	if len(a.Statuses) != len(b.Statuses) {
		return false
	}
	for i := range a.Statuses {
		if a.Statuses[i] != b.Statuses[i] {
			return false
		}
	}
	return true
}
