package tileset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
	"version": "1.0",
	"root": {
		"id": 1,
		"contentEmpty": true,
		"bounds": {"centerX": 0, "centerY": 0, "centerZ": 0, "radius": 10},
		"children": [
			{
				"id": 2,
				"contentEmpty": false,
				"bounds": {"centerX": -5, "centerY": 0, "centerZ": 0, "radius": 5},
				"children": []
			},
			{
				"id": 3,
				"contentEmpty": false,
				"bounds": {"centerX": 5, "centerY": 0, "centerZ": 0, "radius": 5},
				"children": []
			}
		]
	}
}`

func TestDecodeManifest(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	require.Equal(t, "1.0", m.Version)
	require.Equal(t, uint64(1), m.Root.ID)
	require.Len(t, m.Root.Children, 2)
}

func TestBuildTree(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	root := m.BuildTree()

	require.Equal(t, uint64(1), root.ID)
	require.True(t, root.ContentEmpty)
	require.Equal(t, 0, root.Depth)
	require.Equal(t, 10.0, root.Bounds.Radius)
	require.Len(t, root.Children, 2)

	require.Equal(t, uint64(2), root.Children[0].ID)
	require.Equal(t, 1, root.Children[0].Depth)
	require.False(t, root.Children[0].ContentEmpty)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest("/nonexistent/path/manifest.json")
	require.Error(t, err)
}
