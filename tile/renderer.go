package tile

// Stats holds the integer counters the four passes maintain each frame.
// The host resets them before FrustumPass runs and reads them after
// TogglePass returns; the passes themselves only ever increment.
type Stats struct {
	InFrustum int64
	Used      int64
	Visible   int64
	Active    int64
}

// Reset zeroes every counter. Call before each frame's FrustumPass.
func (s *Stats) Reset() {
	s.InFrustum = 0
	s.Used = 0
	s.Visible = 0
	s.Active = 0
}

// LruCache is the bounded content-residency collaborator. Its internal
// eviction policy and capacity are opaque to the core; it only needs to
// answer "is there room" and accept residency refreshes.
type LruCache interface {
	// MarkUsed refreshes tile's residency. Idempotent within a frame.
	MarkUsed(tile *Node)

	// IsFull reports whether the cache has no room for another tile's
	// content this frame.
	IsFull() bool
}

// Renderer is the host collaborator that supplies frustum/error geometry,
// fires content requests, and receives visibility/active toggles. The core
// treats every method as total: a Renderer is assumed never to fail in a
// way the core needs to handle (see spec's error handling design).
type Renderer interface {
	// FrameCount is the monotonically nondecreasing frame counter driving
	// the lazy reset in resetFrameState.
	FrameCount() uint64

	// ErrorTarget is the absolute screen-space error goal.
	ErrorTarget() float64

	// ErrorThreshold scales ErrorTarget into the looser bound used to
	// decide "good enough to show the parent instead of children".
	ErrorThreshold() float64

	// MaxDepth caps recursion depth; 0 disables the cutoff.
	MaxDepth() int

	// LoadSiblings enables the sibling-preload policy in FrustumPass.
	LoadSiblings() bool

	// Cache is the LRU collaborator tracking tile content residency.
	Cache() LruCache

	// Stats is the mutable counter block for the current frame.
	Stats() *Stats

	// TileInView runs the frustum test for tile.
	TileInView(tile *Node) bool

	// CalculateError computes tile's projected screen-space error.
	CalculateError(tile *Node) float64

	// RequestTileContents fires a fire-and-forget content load for tile.
	// It never blocks and never awaits completion; the load publishes its
	// result later via Node.SetLoadingState from another worker.
	RequestTileContents(tile *Node)

	// SetTileVisible and SetTileActive are renderer toggle callbacks.
	//
	// A transposition in the traversal this core was distilled from means
	// SetTileVisible is invoked with the tile's *active* flag and
	// SetTileActive with its *visible* flag. That mapping is preserved
	// here exactly as observed — see TogglePass and DESIGN.md.
	SetTileVisible(tile *Node, active bool)
	SetTileActive(tile *Node, visible bool)
}
