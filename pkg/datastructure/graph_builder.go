package datastructure

import (
	"github.com/lintang-b-s/smartmeet/pkg"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
)

// EdgeFilter drops physically implausible road segments (long jumps, broken weights).
type EdgeFilter struct {
	MaxEdgeDistance float64 // meters
	MinWeightRatio  float64 // weight / haversine distance
}

func DefaultEdgeFilter() EdgeFilter {
	return EdgeFilter{
		MaxEdgeDistance: pkg.DEFAULT_MAX_EDGE_DISTANCE_M,
		MinWeightRatio:  pkg.DEFAULT_MIN_WEIGHT_RATIO,
	}
}

type EdgeVerdict uint8

const (
	EDGE_ACCEPTED EdgeVerdict = iota
	EDGE_MISSING_ENDPOINT
	EDGE_CROSS_CAMPUS
	EDGE_TOO_LONG
	EDGE_SUSPICIOUS_WEIGHT
)

func (ev EdgeVerdict) String() string {
	switch ev {
	case EDGE_ACCEPTED:
		return "accepted"
	case EDGE_MISSING_ENDPOINT:
		return "missing_endpoint"
	case EDGE_CROSS_CAMPUS:
		return "cross_campus"
	case EDGE_TOO_LONG:
		return "too_long"
	case EDGE_SUSPICIOUS_WEIGHT:
		return "suspicious_weight"
	}
	return "unknown"
}

// BuildStats counts edge verdicts of one load.
type BuildStats struct {
	Accepted         int
	MissingEndpoint  int
	CrossCampus      int
	TooLong          int
	SuspiciousWeight int
}

func (bs BuildStats) Rejected() int {
	return bs.MissingEndpoint + bs.CrossCampus + bs.TooLong + bs.SuspiciousWeight
}

func (bs *BuildStats) add(ev EdgeVerdict) {
	switch ev {
	case EDGE_ACCEPTED:
		bs.Accepted++
	case EDGE_MISSING_ENDPOINT:
		bs.MissingEndpoint++
	case EDGE_CROSS_CAMPUS:
		bs.CrossCampus++
	case EDGE_TOO_LONG:
		bs.TooLong++
	case EDGE_SUSPICIOUS_WEIGHT:
		bs.SuspiciousWeight++
	}
}

type builderEdge struct {
	from, to Index
	weight   float64
}

// GraphBuilder collects vertices first, then edges, and compacts them into an immutable Graph.
type GraphBuilder struct {
	filter    EdgeFilter
	vertices  []Vertex
	idToIndex map[string]Index
	edges     []builderEdge
	stats     BuildStats
}

func NewGraphBuilder(filter EdgeFilter) *GraphBuilder {
	return &GraphBuilder{
		filter:    filter,
		vertices:  make([]Vertex, 0),
		idToIndex: make(map[string]Index),
		edges:     make([]builderEdge, 0),
	}
}

// AddVertex adds v. a repeated id replaces the earlier record but keeps its position.
func (b *GraphBuilder) AddVertex(v Vertex) Index {
	if u, ok := b.idToIndex[v.id]; ok {
		b.vertices[u] = v
		return u
	}
	u := Index(len(b.vertices))
	b.vertices = append(b.vertices, v)
	b.idToIndex[v.id] = u
	return u
}

// AddEdge adds the undirected edge from-to if it passes the filters. Vertices must be added before edges.
func (b *GraphBuilder) AddEdge(from, to string, weight float64) EdgeVerdict {
	verdict := b.check(from, to, weight)
	b.stats.add(verdict)
	if verdict != EDGE_ACCEPTED {
		return verdict
	}

	b.edges = append(b.edges, builderEdge{
		from:   b.idToIndex[from],
		to:     b.idToIndex[to],
		weight: weight,
	})
	return EDGE_ACCEPTED
}

func (b *GraphBuilder) check(from, to string, weight float64) EdgeVerdict {
	u, okU := b.idToIndex[from]
	v, okV := b.idToIndex[to]
	if !okU || !okV {
		return EDGE_MISSING_ENDPOINT
	}

	fromV, toV := &b.vertices[u], &b.vertices[v]
	if fromV.campus != "" && toV.campus != "" && fromV.campus != toV.campus {
		return EDGE_CROSS_CAMPUS
	}

	dist := geo.CalculateHaversineDistance(fromV.lat, fromV.lon, toV.lat, toV.lon)
	if dist > b.filter.MaxEdgeDistance {
		return EDGE_TOO_LONG
	}

	// coincident endpoints carry no length to compare the weight against
	if dist > 0 && (weight <= 0 || weight/dist < b.filter.MinWeightRatio) {
		return EDGE_SUSPICIOUS_WEIGHT
	}
	return EDGE_ACCEPTED
}

func (b *GraphBuilder) Stats() BuildStats {
	return b.stats
}

// Build compacts accepted edges into forward and backward arcs, keeping per-vertex insertion order.
func (b *GraphBuilder) Build() *Graph {
	n := len(b.vertices)
	firstOut := make([]Index, n+1)
	for _, e := range b.edges {
		firstOut[e.from+1]++
		firstOut[e.to+1]++
	}
	for v := 1; v <= n; v++ {
		firstOut[v] += firstOut[v-1]
	}

	arcs := make([]Arc, 2*len(b.edges))
	next := make([]Index, n)
	copy(next, firstOut[:n])
	for _, e := range b.edges {
		arcs[next[e.from]] = NewArc(e.to, e.weight)
		next[e.from]++
		arcs[next[e.to]] = NewArc(e.from, e.weight)
		next[e.to]++
	}

	idToIndex := make(map[string]Index, len(b.idToIndex))
	for id, u := range b.idToIndex {
		idToIndex[id] = u
	}

	vertices := make([]Vertex, n)
	copy(vertices, b.vertices)

	return &Graph{
		vertices:  vertices,
		idToIndex: idToIndex,
		firstOut:  firstOut,
		arcs:      arcs,
	}
}
