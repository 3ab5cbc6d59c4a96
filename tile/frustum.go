package tile

// DetermineFrustumSet is FrustumPass. It descends into tile's subtree,
// marking every tile reachable within the frustum — subject to the error
// and max-depth cutoffs — as used, and returns whether any part of the
// subtree is in frustum and used.
//
// Call this once per frame, starting at the tileset root.
func DetermineFrustumSet(tile *Node, r Renderer) bool {
	frameCount := r.FrameCount()
	resetFrameState(tile, frameCount)

	if !r.TileInView(tile) {
		return false
	}

	tile.frame.used = true
	tile.frame.inFrustum = true
	r.Stats().InFrustum++
	r.Cache().MarkUsed(tile)

	if !tile.ContentEmpty {
		errVal := r.CalculateError(tile)
		tile.frame.errorValue = errVal
		if errVal <= r.ErrorTarget() {
			// This tile already refines finely enough; subdividing
			// further would waste cache and bandwidth.
			return true
		}
	}

	if maxDepth := r.MaxDepth(); maxDepth > 0 && tile.Depth+1 >= maxDepth {
		return true
	}

	anyChildrenUsed := false
	for _, child := range tile.Children {
		if DetermineFrustumSet(child, r) {
			anyChildrenUsed = true
		}
	}

	if anyChildrenUsed && r.LoadSiblings() {
		for _, child := range tile.Children {
			markUsedThroughEmpty(child, r, frameCount)
		}
	}

	return true
}

// markUsedThroughEmpty marks tile used and, if it carries no content of
// its own, recurses through its children so that the next tile with
// non-empty content along every path is also marked used. This keeps
// neighbouring tiles resident so camera motion doesn't cause an immediate
// cache miss.
func markUsedThroughEmpty(tile *Node, r Renderer, frameCount uint64) {
	resetFrameState(tile, frameCount)

	if tile.frame.used {
		return
	}

	tile.frame.used = true
	r.Cache().MarkUsed(tile)

	if tile.ContentEmpty {
		for _, child := range tile.Children {
			markUsedThroughEmpty(child, r, frameCount)
		}
	}
}
