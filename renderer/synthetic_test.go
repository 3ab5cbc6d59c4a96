package renderer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/tessera/tile"
)

type fakeLoader struct {
	mu      sync.Mutex
	loaded  []uint64
	failIDs map[uint64]bool
}

func newFakeLoader() *fakeLoader { return &fakeLoader{failIDs: make(map[uint64]bool)} }

func (l *fakeLoader) Load(ctx context.Context, tileID uint64) error {
	l.mu.Lock()
	l.loaded = append(l.loaded, tileID)
	fail := l.failIDs[tileID]
	l.mu.Unlock()

	if fail {
		return errTestLoadFailed
	}
	return nil
}

var errTestLoadFailed = &loadError{"synthetic test load failure"}

type loadError struct{ msg string }

func (e *loadError) Error() string { return e.msg }

type noopCache struct{}

func (noopCache) MarkUsed(*tile.Node) {}
func (noopCache) IsFull() bool        { return false }

func TestSyntheticTileInViewNear(t *testing.T) {
	s := NewSynthetic(context.Background(), DefaultCamera(), Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, newFakeLoader())
	n := tile.NewNode(1, false, 0, tile.Bounds{CenterX: 0, CenterY: 0, CenterZ: 5, Radius: 1})

	require.True(t, s.TileInView(n))
}

func TestSyntheticTileInViewBeyondFarClip(t *testing.T) {
	cam := DefaultCamera()
	cam.FarClip = 100
	s := NewSynthetic(context.Background(), cam, Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, newFakeLoader())
	n := tile.NewNode(1, false, 0, tile.Bounds{CenterX: 0, CenterY: 0, CenterZ: 1000, Radius: 1})

	require.False(t, s.TileInView(n))
}

func TestSyntheticCalculateErrorDecreasesWithDistance(t *testing.T) {
	s := NewSynthetic(context.Background(), DefaultCamera(), Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, newFakeLoader())
	near := tile.NewNode(1, false, 0, tile.Bounds{CenterZ: 10, Radius: 2})
	far := tile.NewNode(2, false, 0, tile.Bounds{CenterZ: 1000, Radius: 2})

	require.Greater(t, s.CalculateError(near), s.CalculateError(far))
}

func TestSyntheticRequestTileContentsLoadsOnce(t *testing.T) {
	loader := newFakeLoader()
	s := NewSynthetic(context.Background(), DefaultCamera(), Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, loader)
	n := tile.NewNode(1, false, 0, tile.Bounds{})

	s.RequestTileContents(n)
	s.RequestTileContents(n) // already Loading: must not fire a second load

	require.Eventually(t, func() bool {
		return n.LoadingState() == tile.Loaded
	}, time.Second, time.Millisecond)

	loader.mu.Lock()
	defer loader.mu.Unlock()
	require.Len(t, loader.loaded, 1)
}

func TestSyntheticRequestTileContentsSkipsContentEmptyTile(t *testing.T) {
	loader := newFakeLoader()
	s := NewSynthetic(context.Background(), DefaultCamera(), Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, loader)
	n := tile.NewNode(1, true, 0, tile.Bounds{})

	s.RequestTileContents(n)

	require.Equal(t, tile.Unloaded, n.LoadingState())
	loader.mu.Lock()
	defer loader.mu.Unlock()
	require.Empty(t, loader.loaded)
}

func TestSyntheticRequestTileContentsFailure(t *testing.T) {
	loader := newFakeLoader()
	loader.failIDs[1] = true
	s := NewSynthetic(context.Background(), DefaultCamera(), Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, loader)
	n := tile.NewNode(1, false, 0, tile.Bounds{})

	s.RequestTileContents(n)

	require.Eventually(t, func() bool {
		return n.LoadingState() == tile.Failed
	}, time.Second, time.Millisecond)
}

type recordingListener struct {
	mu         sync.Mutex
	visibility []bool
}

func (l *recordingListener) TileVisibilityChanged(tileID uint64, active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visibility = append(l.visibility, active)
}
func (l *recordingListener) TileActiveChanged(tileID uint64, visible bool) {}

func TestSyntheticForwardsToggleCallbacksToListener(t *testing.T) {
	s := NewSynthetic(context.Background(), DefaultCamera(), Config{ErrorTarget: 1, ErrorThreshold: 1}, noopCache{}, newFakeLoader())
	listener := &recordingListener{}
	s.SetListener(listener)
	n := tile.NewNode(1, false, 0, tile.Bounds{})

	s.SetTileVisible(n, true)

	listener.mu.Lock()
	defer listener.mu.Unlock()
	require.Equal(t, []bool{true}, listener.visibility)
}
