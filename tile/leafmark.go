package tile

// MarkUsedSetLeaves is LeafMarkPass. It operates only on tiles reachable
// from tile that are used this frame: it marks tiles with no used children
// as leaves, and aggregates the childrenWereVisible hysteresis signal
// upward — read from the PRIOR frame's WasSetVisible, which is
// intentional: it is what lets SkipPass avoid a pop when content is
// transiently evicted.
//
// Callers must only invoke this on a tile with isUsedThisFrame(tile) true.
func MarkUsedSetLeaves(tile *Node, r Renderer) {
	frameCount := r.FrameCount()
	r.Stats().Used++

	anyChildUsed := false
	for _, child := range tile.Children {
		if isUsedThisFrame(child, frameCount) {
			anyChildUsed = true
			break
		}
	}

	if !anyChildUsed {
		tile.frame.isLeaf = true
		return
	}

	for _, child := range tile.Children {
		if isUsedThisFrame(child, frameCount) {
			MarkUsedSetLeaves(child, r)
		}
	}

	childrenWereVisible := false
	for _, child := range tile.Children {
		if child.WasSetVisible() || child.frame.childrenWereVisible {
			childrenWereVisible = true
			break
		}
	}
	tile.frame.childrenWereVisible = childrenWereVisible
}
