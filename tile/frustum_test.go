package tile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrustumPassMarksUsedAndInFrustum(t *testing.T) {
	root := NewNode(1, false, 0, Bounds{})
	r := newFakeRenderer()
	r.frame = 1
	r.errorByID[root.ID] = 2.0 // above target, forces descent attempt

	used := DetermineFrustumSet(root, r)

	require.True(t, used)
	require.True(t, root.Used())
	require.True(t, root.InFrustum())
	require.EqualValues(t, 1, r.stats.InFrustum)
	require.True(t, r.cache.markedIDs[root.ID])
}

func TestFrustumPassOutOfViewStopsDescent(t *testing.T) {
	root, c1, _ := buildTwoLeafTree()
	r := newFakeRenderer()
	r.frame = 1
	r.inView[root.ID] = false

	used := DetermineFrustumSet(root, r)

	require.False(t, used)
	require.False(t, root.Used())
	require.False(t, c1.Used(), "children are never reached when the root is out of view")
	require.Zero(t, r.stats.InFrustum)
}

func TestFrustumPassErrorBelowTargetStopsDescentWithoutDepthCutoff(t *testing.T) {
	root, c1, _ := buildTwoLeafTree()
	r := newFakeRenderer()
	r.frame = 1
	root.ContentEmpty = false
	r.errorByID[root.ID] = 0.1 // below target of 1.0

	DetermineFrustumSet(root, r)

	require.True(t, root.Used())
	require.False(t, c1.Used(), "meeting the error target stops descent into children")
}

func TestFrustumPassMaxDepthCutoff(t *testing.T) {
	root, c1, _ := buildTwoLeafTree()
	r := newFakeRenderer()
	r.frame = 1
	r.maxDepth = 1 // root is depth 0; depth+1 >= 1 cuts off its children

	DetermineFrustumSet(root, r)

	require.True(t, root.Used())
	require.False(t, c1.Used())
}

func TestFrustumPassMaxDepthZeroDisablesCutoff(t *testing.T) {
	root, c1, _ := buildTwoLeafTree()
	r := newFakeRenderer()
	r.frame = 1
	r.maxDepth = 0

	DetermineFrustumSet(root, r)

	require.True(t, c1.Used(), "maxDepth == 0 means no depth cutoff at all")
}

func TestFrustumPassLoadSiblingsMarksEmptyDescendants(t *testing.T) {
	root := NewNode(1, true, 0, Bounds{})
	used := child(2, root, false)
	emptySibling := child(3, root, true)
	grandchild := child(4, emptySibling, false)

	r := newFakeRenderer()
	r.frame = 1
	r.loadSiblings = true
	r.inView[emptySibling.ID] = false // only the sibling rule can reach it
	r.errorByID[used.ID] = 0.1

	DetermineFrustumSet(root, r)

	require.True(t, used.Used())
	require.True(t, emptySibling.Used(), "siblings are marked used through empty content")
	require.True(t, grandchild.Used(), "markUsedThroughEmpty recurses through empty tiles")
}

func TestFrustumPassLoadSiblingsDisabledLeavesSiblingsUntouched(t *testing.T) {
	root := NewNode(1, true, 0, Bounds{})
	used := child(2, root, false)
	sibling := child(3, root, true)

	r := newFakeRenderer()
	r.frame = 1
	r.loadSiblings = false
	r.inView[sibling.ID] = false // only the sibling rule could reach it
	r.errorByID[used.ID] = 0.1

	DetermineFrustumSet(root, r)

	require.True(t, used.Used())
	require.False(t, sibling.Used())
}
