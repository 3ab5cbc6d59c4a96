package tile

// Traverse runs the four passes over root in the fixed order the core
// requires: FrustumPass, LeafMarkPass, SkipPass, TogglePass. Skipping or
// reordering passes is undefined behavior; callers that need more control
// than this orchestrator gives should call the four pass functions
// directly in this order instead.
//
// r.Stats() must already be reset by the caller before Traverse runs.
func Traverse(root *Node, r Renderer) {
	DetermineFrustumSet(root, r)

	if isUsedThisFrame(root, r.FrameCount()) {
		MarkUsedSetLeaves(root, r)
		SkipTraversal(root, r)
	}

	ToggleTiles(root, r)
}
