package engine

import (
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"

	"github.com/kestrel-labs/tessera/tile"
)

// NopObserver does nothing, the base for decorator chains that don't need a
// further inner observer.
type NopObserver struct{}

func (NopObserver) ObserveFrame(tile.Stats, uint64) {}

// ObserverWithLogs wraps inner, logging an averaged summary of Stats every
// summaryInterval rather than on every frame, the same way the teacher's
// websocket handler logs an inbound-message summary instead of one line per
// message.
func ObserverWithLogs(inner FrameObserver, summaryInterval time.Duration) *observerWithLogs {
	o := &observerWithLogs{
		FrameObserver:   inner,
		summaryInterval: summaryInterval,
		closeChan:       make(chan struct{}),
	}
	go o.startSummaryWorker()
	return o
}

type observerWithLogs struct {
	FrameObserver

	summaryInterval time.Duration
	closeOnce       sync.Once
	closeChan       chan struct{}

	mu       sync.Mutex
	frames   int
	statsSum tile.Stats
}

func (o *observerWithLogs) ObserveFrame(stats tile.Stats, frameCount uint64) {
	o.mu.Lock()
	o.frames++
	o.statsSum.InFrustum += stats.InFrustum
	o.statsSum.Used += stats.Used
	o.statsSum.Visible += stats.Visible
	o.statsSum.Active += stats.Active
	o.mu.Unlock()

	o.FrameObserver.ObserveFrame(stats, frameCount)
}

func (o *observerWithLogs) Close() {
	o.closeOnce.Do(func() {
		close(o.closeChan)
		o.logSummary()
	})
}

func (o *observerWithLogs) startSummaryWorker() {
	ticker := time.NewTicker(o.summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.closeChan:
			return
		case <-ticker.C:
			o.logSummary()
		}
	}
}

func (o *observerWithLogs) logSummary() {
	o.mu.Lock()
	frames := o.frames
	sum := o.statsSum
	o.frames = 0
	o.statsSum = tile.Stats{}
	o.mu.Unlock()

	if frames == 0 {
		return
	}

	logs.WithTag("frames", frames).
		WithTag("avg_in_frustum", float64(sum.InFrustum)/float64(frames)).
		WithTag("avg_used", float64(sum.Used)/float64(frames)).
		WithTag("avg_visible", float64(sum.Visible)/float64(frames)).
		WithTag("avg_active", float64(sum.Active)/float64(frames)).
		WithTag("time_interval", o.summaryInterval).
		Info("frame summary")
}
