// Package tileset loads a tile hierarchy description from a JSON manifest
// into a tile.Node tree the traversal core can walk.
package tileset

import (
	"io"
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/kestrel-labs/tessera/tile"
)

// NodeDescriptor is the on-disk shape of a single tile, as decoded by
// segmentio/encoding/json for speed on large manifests.
type NodeDescriptor struct {
	ID           uint64           `json:"id"`
	ContentEmpty bool             `json:"contentEmpty"`
	Bounds       BoundsDescriptor `json:"bounds"`
	Children     []NodeDescriptor `json:"children"`
}

// BoundsDescriptor mirrors tile.Bounds for JSON decoding.
type BoundsDescriptor struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	CenterZ float64 `json:"centerZ"`
	Radius  float64 `json:"radius"`
}

// Manifest is the root of a decoded tileset.
type Manifest struct {
	Version string         `json:"version"`
	Root    NodeDescriptor `json:"root"`
}

// LoadManifest reads and decodes a manifest file from path.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	return DecodeManifest(f)
}

// DecodeManifest decodes a manifest from r.
func DecodeManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// BuildTree converts a manifest's descriptor tree into a tile.Node tree
// rooted at Manifest.Root, assigning Depth 0 to the root and incrementing
// it per level.
func (m Manifest) BuildTree() *tile.Node {
	return buildNode(m.Root, 0)
}

func buildNode(d NodeDescriptor, depth int) *tile.Node {
	n := tile.NewNode(d.ID, d.ContentEmpty, depth, tile.Bounds{
		CenterX: d.Bounds.CenterX,
		CenterY: d.Bounds.CenterY,
		CenterZ: d.Bounds.CenterZ,
		Radius:  d.Bounds.Radius,
	})

	for _, childDesc := range d.Children {
		n.Children = append(n.Children, buildNode(childDesc, depth+1))
	}

	return n
}
