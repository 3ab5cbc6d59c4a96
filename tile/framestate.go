package tile

// resetFrameState lazily resets a tile's transient fields the first time it
// is touched during frameCount. It is idempotent within a frame: once
// frame.lastVisited equals frameCount, further calls are no-ops. This is the
// sole entry point that transitions a tile's transient state into "this
// frame". FrustumPass and its sibling-loading helper call it; the later
// passes read transient state only through isUsedThisFrame.
func resetFrameState(n *Node, frameCount uint64) {
	if n.frame.lastVisited == frameCount {
		return
	}

	n.frame = frameState{lastVisited: frameCount}
}

// isUsedThisFrame returns whether n was marked used during frameCount. The
// AND with lastVisited guarantees a stale `used` value from a prior frame
// never leaks into this frame's decisions.
func isUsedThisFrame(n *Node, frameCount uint64) bool {
	return n.frame.lastVisited == frameCount && n.frame.used
}
