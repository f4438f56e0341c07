package engine

import (
	"errors"
	"math"

	"github.com/lintang-b-s/smartmeet/pkg"
	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/engine/routing"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"go.uber.org/zap"
)

var ErrAlreadyLoaded = errors.New("campus graph is already loaded")

// Engine is the campus road network engine: load once, then answer read-only queries.
// queries before a successful Load return the "no result" sentinels.
type Engine struct {
	graph  *datastructure.Graph
	loaded bool
	filter datastructure.EdgeFilter
	log    *zap.Logger

	components    []datastructure.Index
	numComponents int
}

type Option func(*Engine)

// WithEdgeFilter overrides the plausibility thresholds applied to edges during Load.
func WithEdgeFilter(filter datastructure.EdgeFilter) Option {
	return func(e *Engine) {
		e.filter = filter
	}
}

func NewEngine(log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		filter: datastructure.DefaultEdgeFilter(),
		log:    log,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.graph = datastructure.NewGraphBuilder(e.filter).Build()
	return e
}

// Load reads the nodes and edges sources and builds the graph. on any error the engine stays empty and unloaded.
func (e *Engine) Load(nodesFilePath, edgesFilePath string) error {
	if e.loaded {
		return util.WrapErrorf(ErrAlreadyLoaded, util.ErrConflict, "load %s", nodesFilePath)
	}

	e.log.Info("Reading campus nodes from ", zap.String("nodesFilePath", nodesFilePath))
	nodes, err := datastructure.ReadNodes(nodesFilePath)
	if err != nil {
		e.log.Error("Error loading graph data", zap.Error(err))
		return err
	}

	e.log.Info("Reading campus edges from ", zap.String("edgesFilePath", edgesFilePath))
	edges, err := datastructure.ReadEdges(edgesFilePath)
	if err != nil {
		e.log.Error("Error loading graph data", zap.Error(err))
		return err
	}

	return e.LoadRecords(nodes, edges)
}

// LoadRecords builds the graph from already decoded records. every record must carry its required fields.
func (e *Engine) LoadRecords(nodes []datastructure.NodeRecord, edges []datastructure.EdgeRecord) error {
	if e.loaded {
		return util.WrapErrorf(ErrAlreadyLoaded, util.ErrConflict, "load campus graph")
	}

	builder := datastructure.NewGraphBuilder(e.filter)
	for i, nr := range nodes {
		if nr.ID == nil || nr.Lat == nil || nr.Lng == nil {
			return util.WrapErrorf(nil, util.ErrBadParamInput, "node %d is missing id, lat or lng", i)
		}
		builder.AddVertex(nr.ToVertex())
	}

	for i, er := range edges {
		if er.From == nil || er.To == nil || er.Weight == nil {
			return util.WrapErrorf(nil, util.ErrBadParamInput, "edge %d is missing from, to or weight", i)
		}
		builder.AddEdge(*er.From, *er.To, *er.Weight)
	}

	e.graph = builder.Build()
	e.components, e.numComponents = e.graph.ConnectedComponents()
	e.loaded = true

	stats := builder.Stats()
	e.log.Info("Campus graph loaded",
		zap.Int("nodes", e.graph.NumberOfVertices()),
		zap.Int("edges", e.graph.NumberOfEdges()),
		zap.Int("rejectedEdges", stats.Rejected()),
		zap.Int("missingEndpoint", stats.MissingEndpoint),
		zap.Int("crossCampus", stats.CrossCampus),
		zap.Int("tooLong", stats.TooLong),
		zap.Int("suspiciousWeight", stats.SuspiciousWeight),
		zap.Int("components", e.numComponents),
	)
	return nil
}

func (e *Engine) IsLoaded() bool {
	return e.loaded
}

func (e *Engine) GetGraph() *datastructure.Graph {
	return e.graph
}

func (e *Engine) NodeCount() int {
	return e.graph.NumberOfVertices()
}

// EdgeCount number of undirected edges.
func (e *Engine) EdgeCount() int {
	return e.graph.NumberOfEdges()
}

// ArcCount number of directed arcs (two per edge).
func (e *Engine) ArcCount() int {
	return e.graph.NumberOfArcs()
}

// ComponentCount number of connected components of the loaded graph.
func (e *Engine) ComponentCount() int {
	return e.numComponents
}

// Connected reports whether start and end lie in the same connected component, ignoring campus restrictions.
func (e *Engine) Connected(start, end string) bool {
	if !e.loaded {
		return false
	}
	s, okS := e.graph.GetIndex(start)
	t, okT := e.graph.GetIndex(end)
	return okS && okT && e.components[s] == e.components[t]
}

func (e *Engine) GetNode(id string) (*datastructure.Vertex, bool) {
	u, ok := e.graph.GetIndex(id)
	if !ok {
		return nil, false
	}
	return e.graph.GetVertex(u), true
}

func (e *Engine) String() string {
	return e.graph.String()
}

// ShortestPath returns the shortest distance and node id path between start and end.
// (+Inf, nil) when not loaded, either id is unknown or outside campuses, or end is unreachable.
func (e *Engine) ShortestPath(start, end string, campuses datastructure.CampusSet) (float64, []string) {
	if !e.loaded {
		return pkg.INF_WEIGHT, nil
	}

	s, okS := e.graph.GetIndex(start)
	t, okT := e.graph.GetIndex(end)
	if !okS || !okT {
		return pkg.INF_WEIGHT, nil
	}
	if !e.graph.IsInCampuses(s, campuses) || !e.graph.IsInCampuses(t, campuses) {
		return pkg.INF_WEIGHT, nil
	}
	if e.components[s] != e.components[t] {
		return pkg.INF_WEIGHT, nil
	}

	dist, path := routing.NewDijkstra(e.graph).ShortestPath(s, t, campuses)
	if path == nil {
		return pkg.INF_WEIGHT, nil
	}

	ids := make([]string, len(path))
	for i, v := range path {
		ids[i] = e.graph.GetVertex(v).GetID()
	}
	return dist, ids
}

// AllDistancesFrom shortest distance from start to every node (+Inf when unreachable).
// empty map when not loaded or start is unknown.
func (e *Engine) AllDistancesFrom(start string) map[string]float64 {
	if !e.loaded {
		return map[string]float64{}
	}
	s, ok := e.graph.GetIndex(start)
	if !ok {
		return map[string]float64{}
	}

	sps := routing.NewDijkstra(e.graph).ShortestPathsFrom(s)
	distances := make(map[string]float64, len(sps))
	e.graph.ForVertices(func(u datastructure.Index, v *datastructure.Vertex) {
		distances[v.GetID()] = sps[u]
	})
	return distances
}

// NearestNode linear scan for the node closest (haversine) to lat,lng, restricted to campuses.
// ties go to the node loaded first.
func (e *Engine) NearestNode(lat, lng float64, campuses datastructure.CampusSet) (string, bool) {
	if !e.loaded {
		return "", false
	}

	minDist := math.Inf(1)
	nearest := ""
	found := false
	e.graph.ForVertices(func(u datastructure.Index, v *datastructure.Vertex) {
		if !campuses.Contains(v.GetCampus()) {
			return
		}
		dist := geo.CalculateHaversineDistance(lat, lng, v.GetLat(), v.GetLon())
		if dist < minDist {
			minDist = dist
			nearest = v.GetID()
			found = true
		}
	})
	return nearest, found
}

// PathCoords maps a node id path to [lng, lat] pairs, the order map renderers expect. unknown ids are skipped.
func (e *Engine) PathCoords(path []string) [][2]float64 {
	coords := make([][2]float64, 0, len(path))
	for _, id := range path {
		u, ok := e.graph.GetIndex(id)
		if !ok {
			continue
		}
		lat, lon := e.graph.GetVertexCoordinates(u)
		coords = append(coords, [2]float64{lon, lat})
	}
	return coords
}
