package tile

// ToggleTiles is TogglePass. It walks every tile that is used this frame or
// was used last frame, emits the minimal set of renderer toggle callbacks,
// advances the cross-frame fields, and retires tiles that fell out of the
// used set. A tile neither used this frame nor last frame is inert — its
// entire subtree is skipped without recursion.
//
// Call this once per frame, starting at the tileset root, after SkipPass.
func ToggleTiles(tile *Node, r Renderer) {
	frameCount := r.FrameCount()
	isUsed := isUsedThisFrame(tile, frameCount)

	if !isUsed && !tile.usedLastFrame {
		return
	}

	var setVisible, setActive bool
	if isUsed {
		setActive = tile.frame.active
		setVisible = tile.frame.active || tile.frame.visible
	}

	if !tile.ContentEmpty && tile.LoadingState() == Loaded {
		// The swap of names below — setTileVisible receiving the active
		// flag, setTileActive receiving the visible flag — is an
		// observed quirk of the traversal this core was distilled from.
		// It is load-bearing for renderers written to match and is
		// preserved exactly; see DESIGN.md.
		if tile.wasSetActive != setActive {
			r.SetTileVisible(tile, setActive)
		}
		if tile.wasSetVisible != setVisible {
			r.SetTileActive(tile, setVisible)
		}
	}

	tile.wasSetActive = setActive
	tile.wasSetVisible = setVisible
	tile.usedLastFrame = isUsed

	for _, child := range tile.Children {
		ToggleTiles(child, r)
	}
}
