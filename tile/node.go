// Package tile implements the per-frame traversal core of the tile
// streaming engine: a four-pass tree walk over a rooted hierarchy of
// TileNodes that decides, each frame, which tiles are requested, displayed,
// or retired, subject to a bounded content cache and a screen-space error
// budget.
//
// The four passes run strictly in order — FrustumPass, LeafMarkPass,
// SkipPass, TogglePass — and are implemented in frustum.go, leafmark.go,
// skip.go and toggle.go respectively. This file holds the shared node type
// and its transient per-frame state.
package tile

import "sync/atomic"

// LoadingState is observed by the core. Loaded is the only value treated as
// "ready"; every other value — including host-specific ones this package
// never names — means "not yet loaded".
type LoadingState int32

const (
	Unloaded LoadingState = iota
	Loading
	Loaded
	Failed
)

// Bounds is an opaque bounding volume carried by a Node for the renderer's
// frustum and error calculations. The core never interprets it.
type Bounds struct {
	CenterX, CenterY, CenterZ float64
	Radius                    float64
}

// Node is a tile in the spatial hierarchy. Children are exclusively owned
// by their parent; the root is owned by the host (typically an engine.Engine
// or a test).
//
// Persistent fields are set once at construction and never rewritten by the
// traversal. Transient fields are rewritten every frame by resetFrameState
// and the four passes; they are only meaningful when frameState.lastVisited
// equals the frame counter currently being processed. Cross-frame fields
// carry the last decision delivered to the renderer and are read across the
// frame boundary on purpose.
type Node struct {
	ID           uint64
	Children     []*Node
	ContentEmpty bool
	Depth        int
	Bounds       Bounds

	loadingState atomic.Int32

	frame frameState

	// cross-frame
	wasSetVisible bool
	wasSetActive  bool
	usedLastFrame bool
}

// frameState is the transient per-frame block, kept as one inline struct
// per node (rather than scattered fields) so a single lazy-reset can clear
// all of it at once.
type frameState struct {
	lastVisited         uint64
	used                bool
	inFrustum           bool
	isLeaf              bool
	visible             bool
	active              bool
	errorValue          float64
	childrenWereVisible bool
}

// NewNode builds a leaf-shaped Node; attach children by appending to
// Children before the node is first traversed.
func NewNode(id uint64, contentEmpty bool, depth int, bounds Bounds) *Node {
	n := &Node{
		ID:           id,
		ContentEmpty: contentEmpty,
		Depth:        depth,
		Bounds:       bounds,
	}
	n.loadingState.Store(int32(Unloaded))
	return n
}

// LoadingState is safe to call from the goroutine that completes content
// loads while the traversal reads it from the frame worker.
func (n *Node) LoadingState() LoadingState {
	return LoadingState(n.loadingState.Load())
}

// SetLoadingState publishes a new loading state. Called by the content
// loader when a request made via Renderer.RequestTileContents completes.
func (n *Node) SetLoadingState(s LoadingState) {
	n.loadingState.Store(int32(s))
}

// Used reports whether this tile was reached by FrustumPass this frame.
func (n *Node) Used() bool { return n.frame.used }

// InFrustum reports whether the renderer's frustum test returned true for
// this tile this frame.
func (n *Node) InFrustum() bool { return n.frame.inFrustum }

// IsLeaf reports whether this tile has no used descendants this frame.
func (n *Node) IsLeaf() bool { return n.frame.isLeaf }

// Visible reports whether this tile should be displayed this frame.
func (n *Node) Visible() bool { return n.frame.visible }

// Active reports whether this tile should be considered live (e.g. casting
// shadows) even when not directly visible.
func (n *Node) Active() bool { return n.frame.active }

// Error returns the screen-space error recorded by FrustumPass, or 0 if
// unset this frame.
func (n *Node) Error() float64 { return n.frame.errorValue }

// ChildrenWereVisible reports whether any descendant was visible or active
// last frame — the hysteresis signal read by SkipPass.
func (n *Node) ChildrenWereVisible() bool { return n.frame.childrenWereVisible }

// WasSetVisible returns the last "visible" flag delivered to the renderer.
func (n *Node) WasSetVisible() bool { return n.wasSetVisible }

// WasSetActive returns the last "active" flag delivered to the renderer.
func (n *Node) WasSetActive() bool { return n.wasSetActive }

// UsedLastFrame reports whether Used() was true at the end of the prior
// frame.
func (n *Node) UsedLastFrame() bool { return n.usedLastFrame }
