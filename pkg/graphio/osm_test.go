package graphio

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"

	"github.com/Shaip161/KaGen/pkg/graph"
)

func TestKeepWay(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{
			name: "residential road",
			tags: osm.Tags{{Key: "highway", Value: "residential"}},
			want: true,
		},
		{
			name: "footway",
			tags: osm.Tags{{Key: "highway", Value: "footway"}},
			want: true,
		},
		{
			name: "no highway tag",
			tags: osm.Tags{{Key: "name", Value: "Some Street"}},
			want: false,
		},
		{
			name: "pedestrian plaza",
			tags: osm.Tags{
				{Key: "highway", Value: "pedestrian"},
				{Key: "area", Value: "yes"},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, keepWay(tt.tags), tt.name)
	}
}

func TestOnewayFlags(t *testing.T) {
	tests := []struct {
		name     string
		tags     osm.Tags
		forward  bool
		backward bool
	}{
		{
			name:     "default bidirectional",
			tags:     osm.Tags{{Key: "highway", Value: "residential"}},
			forward:  true,
			backward: true,
		},
		{
			name: "explicit oneway",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "oneway", Value: "yes"},
			},
			forward:  true,
			backward: false,
		},
		{
			name: "reversed oneway",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "oneway", Value: "-1"},
			},
			forward:  false,
			backward: true,
		},
		{
			name:     "motorway implies oneway",
			tags:     osm.Tags{{Key: "highway", Value: "motorway"}},
			forward:  true,
			backward: false,
		},
		{
			name: "roundabout implies oneway",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "junction", Value: "roundabout"},
			},
			forward:  true,
			backward: false,
		},
		{
			name: "explicit no overrides implied",
			tags: osm.Tags{
				{Key: "highway", Value: "motorway"},
				{Key: "oneway", Value: "no"},
			},
			forward:  true,
			backward: true,
		},
		{
			name: "reversible is unusable",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "oneway", Value: "reversible"},
			},
			forward:  false,
			backward: false,
		},
	}
	for _, tt := range tests {
		forward, backward := onewayFlags(tt.tags)
		require.Equal(t, tt.forward, forward, tt.name)
		require.Equal(t, tt.backward, backward, tt.name)
	}
}

func TestBuildRoadGraph(t *testing.T) {
	lat := map[osm.NodeID]float64{10: 1.0, 20: 1.0, 30: 1.1, 40: 1.1}
	lon := map[osm.NodeID]float64{10: 103.0, 20: 103.2, 30: 103.2, 40: 103.0}
	ways := []roadWay{
		{nodes: []osm.NodeID{10, 20, 30}, forward: true, backward: true},
		{nodes: []osm.NodeID{30, 40}, forward: true},
		{nodes: []osm.NodeID{40, 99}, forward: true, backward: true}, // 99 unresolved
		{nodes: []osm.NodeID{20, 20}, forward: true, backward: true}, // degenerate
	}

	g := buildRoadGraph(ways, lat, lon)

	require.Equal(t, graph.VertexRange{First: 0, Last: 4}, g.Vertices)
	// Dense IDs follow sorted OSM IDs: 10->0, 20->1, 30->2, 40->3.
	require.Equal(t, graph.Edgelist{
		{Tail: 0, Head: 1}, {Tail: 1, Head: 0},
		{Tail: 1, Head: 2}, {Tail: 2, Head: 1},
		{Tail: 2, Head: 3},
	}, g.Edges)

	require.Len(t, g.EdgeWeights, len(g.Edges))
	for i, w := range g.EdgeWeights {
		require.Positive(t, w, "edge %d", i)
	}
	// Mirrored directions carry the same length.
	require.Equal(t, g.EdgeWeights[0], g.EdgeWeights[1])

	// Coordinates span the unit square.
	require.Equal(t, []float64{0, 1, 1, 0}, g.CoordX)
	require.Equal(t, []float64{0, 0, 1, 1}, g.CoordY)
}

func TestBBox(t *testing.T) {
	require.True(t, BBox{}.empty())

	box := BBox{MinLat: 1.15, MaxLat: 1.48, MinLon: 103.6, MaxLon: 104.1}
	require.False(t, box.empty())
	require.True(t, box.contains(1.3, 103.8))
	require.True(t, box.contains(1.15, 103.6)) // boundary is inside
	require.False(t, box.contains(1.5, 103.8))
	require.False(t, box.contains(1.3, 103.5))
}
