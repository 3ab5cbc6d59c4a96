package tile

// fakeCache is a hand-built LruCache double, in the spirit of the teacher's
// hand-built test fakes rather than a mocking framework.
type fakeCache struct {
	full      bool
	markedIDs map[uint64]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{markedIDs: make(map[uint64]bool)}
}

func (c *fakeCache) MarkUsed(n *Node) { c.markedIDs[n.ID] = true }
func (c *fakeCache) IsFull() bool     { return c.full }

type toggleCall struct {
	id   uint64
	flag bool
}

// fakeRenderer is a hand-built Renderer double whose frustum/error results
// are driven per-test by the inView/errorByID maps, defaulting to
// "in view, zero error" for any tile not mentioned.
type fakeRenderer struct {
	frame          uint64
	errorTarget    float64
	errorThreshold float64
	maxDepth       int
	loadSiblings   bool
	cache          *fakeCache
	stats          Stats

	inView    map[uint64]bool
	errorByID map[uint64]float64

	requested    []uint64
	setVisible   []toggleCall
	setActive    []toggleCall
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		errorTarget:    1.0,
		errorThreshold: 1.0,
		cache:          newFakeCache(),
		inView:         make(map[uint64]bool),
		errorByID:      make(map[uint64]float64),
	}
}

func (r *fakeRenderer) FrameCount() uint64        { return r.frame }
func (r *fakeRenderer) ErrorTarget() float64      { return r.errorTarget }
func (r *fakeRenderer) ErrorThreshold() float64   { return r.errorThreshold }
func (r *fakeRenderer) MaxDepth() int             { return r.maxDepth }
func (r *fakeRenderer) LoadSiblings() bool        { return r.loadSiblings }
func (r *fakeRenderer) Cache() LruCache           { return r.cache }
func (r *fakeRenderer) Stats() *Stats             { return &r.stats }

func (r *fakeRenderer) TileInView(n *Node) bool {
	if v, ok := r.inView[n.ID]; ok {
		return v
	}
	return true
}

func (r *fakeRenderer) CalculateError(n *Node) float64 {
	return r.errorByID[n.ID]
}

func (r *fakeRenderer) RequestTileContents(n *Node) {
	r.requested = append(r.requested, n.ID)
}

func (r *fakeRenderer) SetTileVisible(n *Node, active bool) {
	r.setVisible = append(r.setVisible, toggleCall{n.ID, active})
}

func (r *fakeRenderer) SetTileActive(n *Node, visible bool) {
	r.setActive = append(r.setActive, toggleCall{n.ID, visible})
}

func (r *fakeRenderer) countRequests(id uint64) int {
	n := 0
	for _, reqID := range r.requested {
		if reqID == id {
			n++
		}
	}
	return n
}

func child(id uint64, parent *Node, contentEmpty bool) *Node {
	n := NewNode(id, contentEmpty, parent.Depth+1, Bounds{})
	parent.Children = append(parent.Children, n)
	return n
}
