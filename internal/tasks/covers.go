package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mikueye/mikueye/internal/osuapi"
	"github.com/mikueye/mikueye/internal/shared"
)

// DefaultCoverWorkers caps how many cover downloads run at once.
const DefaultCoverWorkers = 6

// CoverFetcher downloads raw cover art bytes for a beatmapset.
type CoverFetcher interface {
	CoverBytes(ctx context.Context, setID string, size osuapi.CoverSize) ([]byte, error)
}

// CoverCallback receives the downloaded bytes for one request. Data is nil
// when the download failed; callers render a placeholder in that case.
type CoverCallback func(setID string, data []byte)

type coverTask struct {
	ctx      context.Context
	setID    string
	size     osuapi.CoverSize
	callback CoverCallback
}

type coverDone struct {
	task coverTask
	data []byte
}

// CoverPool is a bounded worker pool for cover downloads. Requests beyond
// the capacity wait in a FIFO queue, and all callbacks are invoked from a
// single delivery goroutine so UI handlers never run concurrently.
type CoverPool struct {
	fetcher  CoverFetcher
	logger   *log.Logger
	capacity int

	mu     sync.Mutex
	queue  []coverTask
	active int
	closed bool

	done chan coverDone
	quit chan struct{}
}

// CoverPoolOpts contains configuration for a CoverPool.
type CoverPoolOpts struct {
	Workers int // Concurrent downloads (default: 6)
	Logger  *log.Logger
}

// NewCoverPool creates a pool and starts its delivery loop.
func NewCoverPool(fetcher CoverFetcher, opts CoverPoolOpts) *CoverPool {
	if opts.Workers <= 0 {
		opts.Workers = DefaultCoverWorkers
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	p := &CoverPool{
		fetcher:  fetcher,
		logger:   opts.Logger,
		capacity: opts.Workers,
		done:     make(chan coverDone),
		quit:     make(chan struct{}),
	}
	go p.deliver()
	return p
}

// Submit queues a cover download. The callback fires later on the pool's
// delivery goroutine. Submissions after Close are dropped.
func (p *CoverPool) Submit(ctx context.Context, setID string, size osuapi.CoverSize, callback CoverCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.queue = append(p.queue, coverTask{ctx: ctx, setID: setID, size: size, callback: callback})
	p.drain()
}

// drain admits queued tasks while a worker slot is free. Callers hold p.mu.
func (p *CoverPool) drain() {
	for p.active < p.capacity && len(p.queue) > 0 {
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.active++
		go p.run(task)
	}
}

func (p *CoverPool) run(task coverTask) {
	data, err := p.fetcher.CoverBytes(task.ctx, task.setID, task.size)
	if err != nil {
		p.logger.Debug("cover download failed", "set_id", task.setID, "error", err)
		data = nil
	}
	select {
	case p.done <- coverDone{task: task, data: data}:
	case <-p.quit:
	}
}

// deliver invokes callbacks one at a time and backfills freed slots.
func (p *CoverPool) deliver() {
	for {
		select {
		case d := <-p.done:
			if d.task.callback != nil {
				d.task.callback(d.task.setID, d.data)
			}
			p.mu.Lock()
			p.active--
			p.drain()
			p.mu.Unlock()
		case <-p.quit:
			return
		}
	}
}

// Pending reports how many requests are waiting for a worker slot.
func (p *CoverPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close stops the pool. Queued requests are discarded and in-flight
// callbacks are no longer delivered.
func (p *CoverPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.queue = nil
	close(p.quit)
}
