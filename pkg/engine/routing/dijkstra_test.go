package routing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lintang-b-s/smartmeet/pkg"
	da "github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairEdge struct {
	from, to string
	weight   float64
}

func buildGraph(t *testing.T, vertices []da.Vertex, edges []pairEdge) *da.Graph {
	t.Helper()
	b := da.NewGraphBuilder(da.DefaultEdgeFilter())
	for _, v := range vertices {
		b.AddVertex(v)
	}
	for _, e := range edges {
		require.Equal(t, da.EDGE_ACCEPTED, b.AddEdge(e.from, e.to, e.weight), "edge %s-%s", e.from, e.to)
	}
	return b.Build()
}

func index(t *testing.T, g *da.Graph, id string) da.Index {
	t.Helper()
	u, ok := g.GetIndex(id)
	require.True(t, ok, "unknown vertex %s", id)
	return u
}

func ids(g *da.Graph, path []da.Index) []string {
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = g.GetVertex(v).GetID()
	}
	return out
}

// gridGraph rows x cols grid ~111 m apart with random weights in [111, 300).
func gridGraph(t *testing.T, rows, cols int, seed int64) (*da.Graph, []pairEdge) {
	rnd := rand.New(rand.NewSource(seed))
	vertices := make([]da.Vertex, 0, rows*cols)
	name := func(r, c int) string { return string(rune('a'+r)) + string(rune('a'+c)) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			vertices = append(vertices, da.NewVertex(name(r, c), float64(r)*0.001, float64(c)*0.001, "", "siming"))
		}
	}
	edges := make([]pairEdge, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				edges = append(edges, pairEdge{name(r, c), name(r, c+1), 111 + rnd.Float64()*189})
			}
			if r+1 < rows {
				edges = append(edges, pairEdge{name(r, c), name(r+1, c), 111 + rnd.Float64()*189})
			}
		}
	}
	return buildGraph(t, vertices, edges), edges
}

func TestShortestPathLine(t *testing.T) {
	g := buildGraph(t, []da.Vertex{
		da.NewVertex("A", 0, 0, "", ""),
		da.NewVertex("B", 0, 0.001, "", ""),
		da.NewVertex("C", 0, 0.002, "", ""),
	}, []pairEdge{{"A", "B", 100}, {"B", "C", 100}})

	dist, path := NewDijkstra(g).ShortestPath(index(t, g, "A"), index(t, g, "C"), nil)
	assert.Equal(t, 200.0, dist)
	assert.Equal(t, []string{"A", "B", "C"}, ids(g, path))
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := buildGraph(t, []da.Vertex{
		da.NewVertex("S", 0, 0, "", ""),
		da.NewVertex("X", 0.001, 0.001, "", ""),
		da.NewVertex("Y", -0.001, 0.001, "", ""),
		da.NewVertex("T", 0, 0.002, "", ""),
	}, []pairEdge{{"S", "T", 900}, {"S", "X", 200}, {"X", "T", 200}, {"S", "Y", 300}, {"Y", "T", 300}})

	d := NewDijkstra(g)
	dist, path := d.ShortestPath(index(t, g, "S"), index(t, g, "T"), nil)
	assert.Equal(t, 400.0, dist)
	assert.Equal(t, []string{"S", "X", "T"}, ids(g, path))
	assert.Greater(t, d.GetNumSettledNodes(), 0)
}

func TestShortestPathUnreachable(t *testing.T) {
	g := buildGraph(t, []da.Vertex{
		da.NewVertex("A", 0, 0, "", ""),
		da.NewVertex("B", 0, 0.001, "", ""),
		da.NewVertex("C", 1, 1, "", ""),
	}, []pairEdge{{"A", "B", 120}})

	dist, path := NewDijkstra(g).ShortestPath(index(t, g, "A"), index(t, g, "C"), nil)
	assert.True(t, math.IsInf(dist, 1))
	assert.Nil(t, path)
}

func TestShortestPathCampusRestriction(t *testing.T) {
	// the only A-C connection goes through an untagged vertex
	g := buildGraph(t, []da.Vertex{
		da.NewVertex("A", 0, 0, "", "siming"),
		da.NewVertex("B", 0, 0.001, "", ""),
		da.NewVertex("C", 0, 0.002, "", "siming"),
	}, []pairEdge{{"A", "B", 120}, {"B", "C", 120}})

	d := NewDijkstra(g)
	dist, path := d.ShortestPath(index(t, g, "A"), index(t, g, "C"), nil)
	assert.Equal(t, 240.0, dist)
	assert.Len(t, path, 3)

	dist, path = d.ShortestPath(index(t, g, "A"), index(t, g, "C"), da.NewCampusSet("siming"))
	assert.Equal(t, pkg.INF_WEIGHT, dist)
	assert.Nil(t, path)
}

func TestShortestPathTieBreakByID(t *testing.T) {
	// two equal-cost routes S-M1-T and S-M2-T, M1 pops first
	g := buildGraph(t, []da.Vertex{
		da.NewVertex("S", 0, 0, "", ""),
		da.NewVertex("M2", -0.001, 0.001, "", ""),
		da.NewVertex("M1", 0.001, 0.001, "", ""),
		da.NewVertex("T", 0, 0.002, "", ""),
	}, []pairEdge{{"S", "M2", 200}, {"S", "M1", 200}, {"M2", "T", 200}, {"M1", "T", 200}})

	_, path := NewDijkstra(g).ShortestPath(index(t, g, "S"), index(t, g, "T"), nil)
	assert.Equal(t, []string{"S", "M1", "T"}, ids(g, path))
}

func TestShortestPathProperties(t *testing.T) {
	g, edges := gridGraph(t, 6, 6, 7)

	weights := make(map[[2]string]float64)
	for _, e := range edges {
		weights[[2]string{e.from, e.to}] = e.weight
		weights[[2]string{e.to, e.from}] = e.weight
	}

	d := NewDijkstra(g)
	n := g.NumberOfVertices()
	for s := 0; s < n; s += 5 {
		for tt := 0; tt < n; tt += 3 {
			sId, tId := da.Index(s), da.Index(tt)
			dist, path := d.ShortestPath(sId, tId, nil)
			require.False(t, math.IsInf(dist, 1))
			require.NotEmpty(t, path)
			assert.Equal(t, sId, path[0])
			assert.Equal(t, tId, path[len(path)-1])

			sum := 0.0
			p := ids(g, path)
			for i := 0; i+1 < len(p); i++ {
				w, ok := weights[[2]string{p[i], p[i+1]}]
				require.True(t, ok, "path uses a non-edge %s-%s", p[i], p[i+1])
				sum += w
			}
			assert.InDelta(t, dist, sum, 1e-9)

			back, _ := d.ShortestPath(tId, sId, nil)
			assert.InDelta(t, dist, back, 1e-9)
		}
	}
}

func TestShortestPathsFrom(t *testing.T) {
	g, _ := gridGraph(t, 5, 4, 11)
	g2 := buildGraph(t, []da.Vertex{
		da.NewVertex("A", 0, 0, "", ""),
		da.NewVertex("B", 0, 0.001, "", ""),
		da.NewVertex("Z", 5, 5, "", ""),
	}, []pairEdge{{"A", "B", 150}})

	t.Run("matches point to point searches", func(t *testing.T) {
		d := NewDijkstra(g)
		s := da.Index(3)
		sps := d.ShortestPathsFrom(s)
		require.Len(t, sps, g.NumberOfVertices())
		assert.Equal(t, 0.0, sps[s])
		for v := 0; v < g.NumberOfVertices(); v++ {
			dist, _ := NewDijkstra(g).ShortestPath(s, da.Index(v), nil)
			assert.InDelta(t, dist, sps[v], 1e-9)
		}
	})

	t.Run("unreachable keeps infinity", func(t *testing.T) {
		sps := NewDijkstra(g2).ShortestPathsFrom(index(t, g2, "A"))
		assert.Equal(t, []float64{0, 150, pkg.INF_WEIGHT}, sps)
	})
}
