package datastructure

// ConnectedComponents labels every vertex with the id of its connected component.
// ids are dense and follow the load order of each component's first vertex.
func (g *Graph) ConnectedComponents() ([]Index, int) {
	n := g.NumberOfVertices()
	comp := make([]Index, n)
	for i := range comp {
		comp[i] = INVALID_VERTEX_ID
	}

	count := 0
	stack := make([]Index, 0, 64)
	for root := Index(0); int(root) < n; root++ {
		if comp[root] != INVALID_VERTEX_ID {
			continue
		}
		id := Index(count)
		count++

		comp[root] = id
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g.ForOutArcs(u, func(arc *Arc) {
				v := arc.GetHead()
				if comp[v] == INVALID_VERTEX_ID {
					comp[v] = id
					stack = append(stack, v)
				}
			})
		}
	}
	return comp, count
}
