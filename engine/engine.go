// Package engine drives the traversal core on a fixed tick, the way
// models.Session drives per-session frame handlers in the teacher's
// websocket server: a ticker fires, every registered frame handler runs,
// and the loop keeps going until the engine is closed.
package engine

import (
	"sync"
	"time"

	"github.com/kestrel-labs/tessera/tile"
)

// Engine runs tile.Traverse against a root tile on a fixed frame interval.
type Engine struct {
	root     *tile.Node
	renderer tileRenderer

	frameDuration time.Duration
	ticker        *time.Ticker
	closeOnce     sync.Once
	closeChan     chan struct{}

	observer FrameObserver

	mu         sync.RWMutex
	frameCount uint64
	lastStats  tile.Stats
	ready      bool
}

// FrameObserver is notified after every completed frame. Implementations
// must not block, since they run on the engine's own tick goroutine.
type FrameObserver interface {
	ObserveFrame(stats tile.Stats, frameCount uint64)
}

// tileRenderer is the full tile.Renderer plus AdvanceFrame, which the engine
// calls at the start of every tick to advance the frame counter and reset
// the renderer's Stats.
type tileRenderer interface {
	tile.Renderer
	AdvanceFrame()
}

// New builds an Engine that will traverse root against r every
// frameDuration once Start is called.
func New(root *tile.Node, r tileRenderer, frameDuration time.Duration) *Engine {
	return &Engine{
		root:          root,
		renderer:      r,
		frameDuration: frameDuration,
		ticker:        time.NewTicker(frameDuration),
		closeChan:     make(chan struct{}),
	}
}

// Start runs the frame loop until Close is called. Intended to be run in
// its own goroutine.
func (e *Engine) Start() {
	for {
		select {
		case <-e.closeChan:
			return
		case <-e.ticker.C:
			e.tick()
		}
	}
}

// Close stops the frame loop. Safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.ticker.Stop()
		close(e.closeChan)

		if c, ok := e.observer.(interface{ Close() }); ok {
			c.Close()
		}
	})
}

// SetObserver registers the frame observer notified after every tick, e.g.
// a metrics or logging decorator built with ObserverWithMetrics /
// ObserverWithLogs. Not safe to call once Start is running.
func (e *Engine) SetObserver(o FrameObserver) {
	e.observer = o
}

// Ready reports whether at least one frame has completed, for use as an
// HTTP readiness check.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Stats returns a copy of the most recently completed frame's counters.
func (e *Engine) Stats() tile.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastStats
}

// FrameCount returns the number of frames completed so far.
func (e *Engine) FrameCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frameCount
}

func (e *Engine) tick() {
	e.renderer.AdvanceFrame()
	tile.Traverse(e.root, e.renderer)

	frameCount := e.renderer.FrameCount()
	stats := *e.renderer.Stats()

	e.mu.Lock()
	select {
	case <-e.closeChan:
		// Close ran while this frame was in flight; do not publish it.
		e.mu.Unlock()
		return
	default:
	}
	e.frameCount = frameCount
	e.lastStats = stats
	e.ready = true
	e.mu.Unlock()

	if e.observer != nil {
		e.observer.ObserveFrame(stats, frameCount)
	}
}
