package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mikueye/mikueye/internal/osuapi"
)

type stubCoverFetcher struct {
	mu        sync.Mutex
	active    int
	maxActive int
	release   chan struct{}
	fail      bool
}

func (f *stubCoverFetcher) CoverBytes(ctx context.Context, setID string, size osuapi.CoverSize) ([]byte, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	if f.fail {
		return nil, errors.New("fetch failed")
	}
	return []byte("img-" + setID), nil
}

func (f *stubCoverFetcher) snapshot() (active, maxActive int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, f.maxActive
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestCoverPool(t *testing.T) {
	ctx := context.Background()

	t.Run("Caps Concurrent Downloads", func(t *testing.T) {
		fetcher := &stubCoverFetcher{release: make(chan struct{})}
		pool := NewCoverPool(fetcher, CoverPoolOpts{Workers: 2})
		defer pool.Close()

		var wg sync.WaitGroup
		wg.Add(10)
		for i := 0; i < 10; i++ {
			pool.Submit(ctx, fmt.Sprintf("%d", i), osuapi.CoverCard, func(string, []byte) {
				wg.Done()
			})
		}

		waitFor(t, func() bool {
			active, _ := fetcher.snapshot()
			return active == 2
		})
		if pending := pool.Pending(); pending != 8 {
			t.Errorf("expected 8 queued requests, got %d", pending)
		}

		close(fetcher.release)
		wg.Wait()

		if _, maxActive := fetcher.snapshot(); maxActive > 2 {
			t.Errorf("expected at most 2 concurrent downloads, got %d", maxActive)
		}
		if pending := pool.Pending(); pending != 0 {
			t.Errorf("expected empty queue after drain, got %d", pending)
		}
	})

	t.Run("Callbacks Never Overlap", func(t *testing.T) {
		fetcher := &stubCoverFetcher{}
		pool := NewCoverPool(fetcher, CoverPoolOpts{Workers: 6})
		defer pool.Close()

		var mu sync.Mutex
		inCallback := false
		overlapped := false

		var wg sync.WaitGroup
		wg.Add(20)
		for i := 0; i < 20; i++ {
			pool.Submit(ctx, fmt.Sprintf("%d", i), osuapi.CoverCard, func(string, []byte) {
				mu.Lock()
				if inCallback {
					overlapped = true
				}
				inCallback = true
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inCallback = false
				mu.Unlock()
				wg.Done()
			})
		}
		wg.Wait()

		if overlapped {
			t.Error("expected callbacks to run one at a time")
		}
	})

	t.Run("Failure Delivers Nil Data", func(t *testing.T) {
		fetcher := &stubCoverFetcher{fail: true}
		pool := NewCoverPool(fetcher, CoverPoolOpts{})
		defer pool.Close()

		done := make(chan []byte, 1)
		pool.Submit(ctx, "42", osuapi.CoverList, func(setID string, data []byte) {
			if setID != "42" {
				t.Errorf("expected callback for set 42, got %s", setID)
			}
			done <- data
		})

		select {
		case data := <-done:
			if data != nil {
				t.Errorf("expected nil data on failure, got %q", data)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("callback never fired")
		}
	})

	t.Run("Submit After Close Is Dropped", func(t *testing.T) {
		fetcher := &stubCoverFetcher{}
		pool := NewCoverPool(fetcher, CoverPoolOpts{})
		pool.Close()

		pool.Submit(ctx, "1", osuapi.CoverCard, func(string, []byte) {
			t.Error("callback fired after close")
		})

		time.Sleep(20 * time.Millisecond)
		if pending := pool.Pending(); pending != 0 {
			t.Errorf("expected closed pool to drop submissions, got %d queued", pending)
		}
	})
}
