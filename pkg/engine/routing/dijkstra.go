package routing

import (
	"github.com/lintang-b-s/smartmeet/pkg"
	da "github.com/lintang-b-s/smartmeet/pkg/datastructure"
)

// Dijkstra holds the per-query search state over an immutable graph. it is not safe for concurrent use,
// create one per goroutine (the graph itself can be shared).
type Dijkstra struct {
	graph *da.Graph

	dist    []float64
	parent  []da.Index
	visited []bool

	pq *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph) *Dijkstra {
	d := &Dijkstra{
		graph: graph,
	}
	// equal tentative distances pop in node id order
	d.pq = da.NewBinaryHeap[da.Index]().WithTieBreaker(func(a, b da.Index) bool {
		return graph.GetVertex(a).GetID() < graph.GetVertex(b).GetID()
	})
	return d
}

func (us *Dijkstra) preallocate() {
	n := us.graph.NumberOfVertices()
	us.dist = make([]float64, n)
	us.parent = make([]da.Index, n)
	us.visited = make([]bool, n)
	for v := 0; v < n; v++ {
		us.dist[v] = pkg.INF_WEIGHT
		us.parent[v] = da.INVALID_VERTEX_ID
	}
	us.pq.Clear()
	us.numSettledNodes = 0
}

// ShortestPath returns the distance and vertex sequence from s to t, or (INF_WEIGHT, nil) when t is unreachable.
// vertices outside campuses are treated as absent. s and t are assumed to pass the campus restriction.
func (us *Dijkstra) ShortestPath(s, t da.Index, campuses da.CampusSet) (float64, []da.Index) {
	us.preallocate()
	us.search(s, t, campuses, true)

	if us.dist[t] == pkg.INF_WEIGHT {
		return pkg.INF_WEIGHT, nil
	}

	path := make([]da.Index, 0)
	for v := t; v != da.INVALID_VERTEX_ID; v = us.parent[v] {
		path = append(path, v)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return us.dist[t], path
}

// ShortestPathsFrom single-source shortest paths, from s to all other vertices. unreachable vertices keep INF_WEIGHT.
func (us *Dijkstra) ShortestPathsFrom(s da.Index) []float64 {
	us.preallocate()
	us.search(s, da.INVALID_VERTEX_ID, nil, false)

	sps := make([]float64, len(us.dist))
	copy(sps, us.dist)
	return sps
}

func (us *Dijkstra) GetNumSettledNodes() int {
	return us.numSettledNodes
}

func (us *Dijkstra) search(s, t da.Index, campuses da.CampusSet, stopAtTarget bool) {
	us.dist[s] = 0
	us.pq.Insert(da.NewPriorityQueueNode(0, s))

	for !us.pq.IsEmpty() {
		queryKey, _ := us.pq.ExtractMin()
		uId := queryKey.GetItem()
		uDist := queryKey.GetRank()

		// lazy deletion: a vertex can be queued several times, only its first pop counts
		if us.visited[uId] {
			continue
		}
		us.visited[uId] = true
		us.numSettledNodes++

		if stopAtTarget && uId == t {
			return
		}

		if uDist > us.dist[uId] {
			continue
		}

		us.graph.ForOutArcs(uId, func(arc *da.Arc) {
			vId := arc.GetHead()
			if us.visited[vId] {
				return
			}
			if !us.graph.IsInCampuses(vId, campuses) {
				return
			}

			newDist := uDist + arc.GetWeight()
			if newDist < us.dist[vId] {
				us.dist[vId] = newDist
				us.parent[vId] = uId
				us.pq.Insert(da.NewPriorityQueueNode(newDist, vId))
			}
		})
	}
}
