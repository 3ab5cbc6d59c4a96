// Package renderer provides a synthetic, math-only implementation of
// tile.Renderer: a perspective camera frustum test, a distance-based
// screen-space error estimate, and a pluggable fire-and-forget content
// loader. It exists to drive the traversal core end to end without a real
// rendering backend, and to give cmd/tessera-server something concrete to
// wire up.
package renderer

import (
	"context"
	"math"
	"sync"

	"github.com/kestrel-labs/tessera/spatial"
	"github.com/kestrel-labs/tessera/tile"
)

// ContentLoader fetches a tile's content. Load is expected to block for the
// duration of the fetch; Synthetic always calls it from its own goroutine so
// RequestTileContents itself never blocks the traversal.
type ContentLoader interface {
	Load(ctx context.Context, tileID uint64) error
}

// Config holds the SSE and traversal-shaping parameters a Synthetic
// renderer exposes to the core.
type Config struct {
	ErrorTarget    float64
	ErrorThreshold float64
	MaxDepth       int
	LoadSiblings   bool
}

// VisibilityListener observes the toggle callbacks a Synthetic renderer
// receives from TogglePass, e.g. to forward them to debugstream.
type VisibilityListener interface {
	TileVisibilityChanged(tileID uint64, active bool)
	TileActiveChanged(tileID uint64, visible bool)
}

// Synthetic is a reference tile.Renderer. It is safe for concurrent use: the
// traversal core calls it from the frame goroutine, while content loads and
// frustum-footprint indexing may be touched from other goroutines.
type Synthetic struct {
	cfg    Config
	cache  tile.LruCache
	loader ContentLoader
	cancel context.Context

	mu       sync.Mutex
	camera   Camera
	frame    uint64
	stats    tile.Stats
	grid     *spatial.RegularGrid
	indexed  map[uint64]bool
	listener VisibilityListener
}

// NewSynthetic builds a Synthetic renderer. ctx bounds every content load
// goroutine RequestTileContents spawns.
func NewSynthetic(ctx context.Context, camera Camera, cfg Config, cache tile.LruCache, loader ContentLoader) *Synthetic {
	return &Synthetic{
		cfg:     cfg,
		cache:   cache,
		loader:  loader,
		cancel:  ctx,
		camera:  camera,
		grid:    spatial.NewRegularGrid(4, 4, 64),
		indexed: make(map[uint64]bool),
	}
}

// SetListener registers the toggle-callback observer. Not safe to call
// concurrently with a frame in progress.
func (s *Synthetic) SetListener(l VisibilityListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// SetCamera updates the camera used by the next frame's TileInView and
// CalculateError calls.
func (s *Synthetic) SetCamera(c Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}

// AdvanceFrame increments the frame counter and resets per-frame stats. Call
// once before each Traverse.
func (s *Synthetic) AdvanceFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame++
	s.stats.Reset()
}

// DebugInfo exposes the broad-phase footprint index's occupancy for the
// admin surface.
func (s *Synthetic) DebugInfo() spatial.DebugInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.DebugInfo()
}

func (s *Synthetic) FrameCount() uint64      { s.mu.Lock(); defer s.mu.Unlock(); return s.frame }
func (s *Synthetic) ErrorTarget() float64    { return s.cfg.ErrorTarget }
func (s *Synthetic) ErrorThreshold() float64 { return s.cfg.ErrorThreshold }
func (s *Synthetic) MaxDepth() int           { return s.cfg.MaxDepth }
func (s *Synthetic) LoadSiblings() bool      { return s.cfg.LoadSiblings }
func (s *Synthetic) Cache() tile.LruCache    { return s.cache }
func (s *Synthetic) Stats() *tile.Stats      { return &s.stats }

// TileInView runs a sphere-vs-frustum test between the tile's bounding
// volume and the current camera, and lazily indexes the tile's horizontal
// footprint into the broad-phase grid so Region/Intersect queries over the
// tileset (e.g. for a debug ray pick) stay cheap as the tileset grows.
func (s *Synthetic) TileInView(n *tile.Node) bool {
	s.mu.Lock()
	cam := s.camera
	if !s.indexed[n.ID] {
		s.indexed[n.ID] = true
		s.grid.Insert(spatial.NewFootprint(n.ID,
			spatial.NewVector3(float32(n.Bounds.CenterX), float32(n.Bounds.CenterY), float32(n.Bounds.CenterZ)),
			spatial.NewVector3(float32(n.Bounds.Radius), float32(n.Bounds.Radius), float32(n.Bounds.Radius)),
		))
	}
	s.mu.Unlock()

	b := n.Bounds
	dist := cam.distanceTo(b.CenterX, b.CenterY, b.CenterZ)
	if dist-b.Radius > cam.FarClip {
		return false
	}
	if dist+b.Radius < cam.NearClip {
		return false
	}

	// Half-angle test: a bounding sphere is in view if the horizontal (XZ)
	// angle between the Z axis and the sphere center is within half the
	// horizontal FOV (FovYRadians * AspectRatio), inflated by the sphere's
	// own angular radius. Vertical offset is not tested, and tiles in front
	// of and behind the camera along Z are treated alike.
	if dist <= b.Radius {
		return true // camera is inside the bounding sphere
	}

	dx := b.CenterX - cam.X
	dz := b.CenterZ - cam.Z
	horizontalAngle := math.Atan2(math.Abs(dx), math.Max(math.Abs(dz), 1e-9))
	angularRadius := math.Asin(math.Min(b.Radius/dist, 1))
	return horizontalAngle <= cam.FovYRadians*cam.AspectRatio/2+angularRadius
}

// CalculateError estimates screen-space error from the tile's bounding
// diameter (twice its radius), treated as its geometric error, projected to
// screen pixels at the tile's distance from the camera.
func (s *Synthetic) CalculateError(n *tile.Node) float64 {
	s.mu.Lock()
	cam := s.camera
	s.mu.Unlock()

	b := n.Bounds
	dist := cam.distanceTo(b.CenterX, b.CenterY, b.CenterZ)
	if dist < 1e-6 {
		dist = 1e-6
	}

	geometricError := b.Radius * 2
	return geometricError * cam.sseConstant() / dist
}

// RequestTileContents fires a fire-and-forget load unless one is already in
// flight or complete.
func (s *Synthetic) RequestTileContents(n *tile.Node) {
	if n.ContentEmpty || n.LoadingState() != tile.Unloaded {
		return
	}
	n.SetLoadingState(tile.Loading)

	go func() {
		err := s.loader.Load(s.cancel, n.ID)
		if err != nil {
			n.SetLoadingState(tile.Failed)
			return
		}
		n.SetLoadingState(tile.Loaded)
	}()
}

func (s *Synthetic) SetTileVisible(n *tile.Node, active bool) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l.TileVisibilityChanged(n.ID, active)
	}
}

func (s *Synthetic) SetTileActive(n *tile.Node, visible bool) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l.TileActiveChanged(n.ID, visible)
	}
}

var _ tile.Renderer = (*Synthetic)(nil)
