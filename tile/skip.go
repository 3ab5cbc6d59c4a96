package tile

// SkipTraversal is SkipPass, the decision pass: it decides which used
// tiles become visible/active this frame and which should be requested
// from the cache, using SSE and hysteresis rules.
//
// Callers must only invoke this on a tile with isUsedThisFrame(tile) true.
func SkipTraversal(tile *Node, r Renderer) {
	frameCount := r.FrameCount()
	errorRequirement := r.ErrorTarget() * r.ErrorThreshold()
	meetsSSE := tile.Error() <= errorRequirement
	hasContent := !tile.ContentEmpty
	loadedContent := tile.LoadingState() == Loaded && hasContent
	childrenWereVisible := tile.ChildrenWereVisible()

	if tile.IsLeaf() {
		if loadedContent {
			markVisibleActive(tile, r)
		} else if hasContent && !r.Cache().IsFull() {
			r.RequestTileContents(tile)
		}
		return
	}

	// allChildrenHaveContent deliberately reads tile.ContentEmpty (the
	// parent), not child.ContentEmpty: this makes the predicate trivially
	// true whenever the parent itself carries no content. Preserved as
	// observed; see DESIGN.md.
	allChildrenHaveContent := true
	for _, child := range tile.Children {
		if !isUsedThisFrame(child, frameCount) {
			continue
		}
		if !(child.LoadingState() == Loaded || tile.ContentEmpty) {
			allChildrenHaveContent = false
			break
		}
	}

	if meetsSSE && !loadedContent && !r.Cache().IsFull() && hasContent {
		r.RequestTileContents(tile)
	}

	if meetsSSE && !allChildrenHaveContent && !childrenWereVisible {
		// Show the parent while children load, unless children were
		// already showing — the pop-avoidance hysteresis branch.
		if loadedContent {
			markVisibleActive(tile, r)

			for _, child := range tile.Children {
				if !isUsedThisFrame(child, frameCount) {
					continue
				}
				if !child.ContentEmpty && !r.Cache().IsFull() {
					r.RequestTileContents(child)
				}
			}
		}
		return
	}

	for _, child := range tile.Children {
		if isUsedThisFrame(child, frameCount) {
			SkipTraversal(child, r)
		}
	}
}

func markVisibleActive(tile *Node, r Renderer) {
	if tile.InFrustum() {
		tile.frame.visible = true
		r.Stats().Visible++
	}
	tile.frame.active = true
	r.Stats().Active++
}
