package datastructure

import (
	"fmt"
)

type Index uint32

const INVALID_VERTEX_ID Index = ^Index(0)

// Vertex is a road intersection / landmark of the campus network.
type Vertex struct {
	id     string
	lat    float64
	lon    float64
	name   string
	campus string // "" = untagged
}

func NewVertex(id string, lat, lon float64, name, campus string) Vertex {
	if name == "" {
		name = id
	}
	return Vertex{
		id:     id,
		lat:    lat,
		lon:    lon,
		name:   name,
		campus: campus,
	}
}

func (v *Vertex) GetID() string {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetName() string {
	return v.name
}

func (v *Vertex) GetCampus() string {
	return v.campus
}

// Arc is one direction of an undirected road segment.
type Arc struct {
	head   Index
	weight float64
}

func NewArc(head Index, weight float64) Arc {
	return Arc{head: head, weight: weight}
}

func (a *Arc) GetHead() Index {
	return a.head
}

func (a *Arc) GetWeight() float64 {
	return a.weight
}

// Graph is the immutable campus road network.
// arcs of vertex v are arcs[firstOut[v]:firstOut[v+1]] (compressed sparse row).
type Graph struct {
	vertices  []Vertex
	idToIndex map[string]Index
	firstOut  []Index
	arcs      []Arc
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

// NumberOfArcs counts both directions of every road segment.
func (g *Graph) NumberOfArcs() int {
	return len(g.arcs)
}

// NumberOfEdges counts undirected road segments.
func (g *Graph) NumberOfEdges() int {
	return len(g.arcs) / 2
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return &g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	return g.vertices[u].lat, g.vertices[u].lon
}

func (g *Graph) GetIndex(id string) (Index, bool) {
	u, ok := g.idToIndex[id]
	return u, ok
}

func (g *Graph) GetOutDegree(u Index) int {
	return int(g.firstOut[u+1] - g.firstOut[u])
}

func (g *Graph) ForOutArcs(u Index, handle func(arc *Arc)) {
	for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
		handle(&g.arcs[i])
	}
}

// ForVertices iterates vertices in load order.
func (g *Graph) ForVertices(handle func(u Index, v *Vertex)) {
	for i := range g.vertices {
		handle(Index(i), &g.vertices[i])
	}
}

func (g *Graph) String() string {
	return fmt.Sprintf("CampusGraph(nodes=%d, edges=%d)", g.NumberOfVertices(), g.NumberOfEdges())
}

// CampusSet restricts a query to vertices tagged with one of its campuses. An empty set means no restriction.
type CampusSet map[string]struct{}

func NewCampusSet(campuses ...string) CampusSet {
	if len(campuses) == 0 {
		return nil
	}
	cs := make(CampusSet, len(campuses))
	for _, c := range campuses {
		cs[c] = struct{}{}
	}
	return cs
}

// Contains reports whether a vertex tagged campus passes the restriction.
// untagged vertices never pass a non-empty restriction.
func (cs CampusSet) Contains(campus string) bool {
	if len(cs) == 0 {
		return true
	}
	_, ok := cs[campus]
	return ok
}

func (g *Graph) IsInCampuses(u Index, cs CampusSet) bool {
	return cs.Contains(g.vertices[u].campus)
}
