package graphio

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/Shaip161/KaGen/pkg/geo"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// roadWay is one usable highway: its node chain and travel directions.
type roadWay struct {
	nodes    []osm.NodeID
	forward  bool
	backward bool
}

// BBox restricts an import to nodes inside a latitude/longitude window.
// The zero value imports the whole extract.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func (b BBox) empty() bool {
	return b == BBox{}
}

func (b BBox) contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// ReadOSM imports the road network of an OpenStreetMap PBF extract as a
// single-rank edge list. Vertices are the nodes referenced by highway
// ways, renumbered densely in ID order, with coordinates scaled to the
// unit square; every way segment becomes one edge per open travel
// direction, weighted by its great-circle length in meters. Segments
// leaving the bounding box are dropped with their outside endpoint. The
// result feeds the same postprocessing and output pipeline as generated
// graphs.
func ReadOSM(ctx context.Context, path string, box BBox) (graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readOSM(ctx, f, box)
}

// readOSM scans the extract twice: ways first to learn which nodes
// matter, then nodes for their coordinates.
func readOSM(ctx context.Context, rs io.ReadSeeker, box BBox) (graph.Graph, error) {
	referenced := make(map[osm.NodeID]struct{})
	var ways []roadWay

	sc := osmpbf.New(ctx, rs, 1)
	sc.SkipNodes = true
	sc.SkipRelations = true
	for sc.Scan() {
		w, ok := sc.Object().(*osm.Way)
		if !ok || len(w.Nodes) < 2 || !keepWay(w.Tags) {
			continue
		}
		forward, backward := onewayFlags(w.Tags)
		if !forward && !backward {
			continue
		}
		ids := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			ids[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ways = append(ways, roadWay{nodes: ids, forward: forward, backward: backward})
	}
	if err := sc.Err(); err != nil {
		sc.Close()
		return graph.Graph{}, fmt.Errorf("scan ways: %w", err)
	}
	sc.Close()

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return graph.Graph{}, fmt.Errorf("rewind for node pass: %w", err)
	}

	lat := make(map[osm.NodeID]float64, len(referenced))
	lon := make(map[osm.NodeID]float64, len(referenced))
	sc = osmpbf.New(ctx, rs, 1)
	sc.SkipWays = true
	sc.SkipRelations = true
	for sc.Scan() {
		n, ok := sc.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, need := referenced[n.ID]; !need {
			continue
		}
		if !box.empty() && !box.contains(n.Lat, n.Lon) {
			continue
		}
		lat[n.ID] = n.Lat
		lon[n.ID] = n.Lon
	}
	if err := sc.Err(); err != nil {
		sc.Close()
		return graph.Graph{}, fmt.Errorf("scan nodes: %w", err)
	}
	sc.Close()

	return buildRoadGraph(ways, lat, lon), nil
}

// keepWay accepts any mapped highway except area features like
// pedestrian plazas.
func keepWay(tags osm.Tags) bool {
	return tags.Find("highway") != "" && tags.Find("area") != "yes"
}

// onewayFlags reads the oneway tag. Motorways and roundabouts imply
// forward-only travel even without it.
func onewayFlags(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true
	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Time-dependent direction, unusable for a static graph.
		forward, backward = false, false
	}
	return forward, backward
}

// buildRoadGraph renumbers the resolved nodes and turns way segments
// into edges. Segments with an unresolved endpoint and zero-length
// self segments are dropped.
func buildRoadGraph(ways []roadWay, lat, lon map[osm.NodeID]float64) graph.Graph {
	ids := make([]osm.NodeID, 0, len(lat))
	for id := range lat {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	index := make(map[osm.NodeID]uint64, len(ids))
	for i, id := range ids {
		index[id] = uint64(i)
	}

	g := graph.Graph{
		Vertices: graph.VertexRange{First: 0, Last: uint64(len(ids))},
		CoordX:   make([]float64, len(ids)),
		CoordY:   make([]float64, len(ids)),
	}

	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, id := range ids {
		minLat, maxLat = math.Min(minLat, lat[id]), math.Max(maxLat, lat[id])
		minLon, maxLon = math.Min(minLon, lon[id]), math.Max(maxLon, lon[id])
	}
	for i, id := range ids {
		g.CoordX[i] = unitScale(lon[id], minLon, maxLon)
		g.CoordY[i] = unitScale(lat[id], minLat, maxLat)
	}

	for _, w := range ways {
		for i := 0; i+1 < len(w.nodes); i++ {
			fromID, toID := w.nodes[i], w.nodes[i+1]
			u, okU := index[fromID]
			v, okV := index[toID]
			if !okU || !okV || u == v {
				continue
			}
			meters := geo.Haversine(lat[fromID], lon[fromID], lat[toID], lon[toID])
			weight := int64(math.Round(meters))
			if weight == 0 {
				weight = 1
			}
			if w.forward {
				g.Edges = append(g.Edges, graph.Edge{Tail: u, Head: v})
				g.EdgeWeights = append(g.EdgeWeights, weight)
			}
			if w.backward {
				g.Edges = append(g.Edges, graph.Edge{Tail: v, Head: u})
				g.EdgeWeights = append(g.EdgeWeights, weight)
			}
		}
	}
	return g
}

// unitScale maps v from [min, max] to [0, 1]; a degenerate span pins
// everything to the center.
func unitScale(v, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	return (v - min) / (max - min)
}
