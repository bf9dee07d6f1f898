package layout

import "math/rand/v2"

// orphanLayers are the pseudo-layers handed to nodes unreachable from the root.
var orphanLayers = [...]int{-4, -3, -2, -1, 1, 2, 3, 4}

// adjacency builds an undirected neighbour list. Edges that reference an
// unknown ID are skipped, as are self-loops.
func adjacency(edges []Edge, known map[string]bool) map[string][]string {
	adj := make(map[string][]string, len(known))
	for _, e := range edges {
		if e.Source == e.Target || !known[e.Source] || !known[e.Target] {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	return adj
}

// AssignLayers computes each node's hop distance from root, treating edges as
// undirected.
//
// Nodes unreachable from root are absent from the returned map; see
// [assignOrphans] for how the engine places them. Dangling edges are ignored.
// If root is not among ids, the result is empty.
//
// Time complexity is O(V + E).
func AssignLayers(ids []string, edges []Edge, root string) map[string]int {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	if !known[root] {
		return map[string]int{}
	}

	adj := adjacency(edges, known)
	layers := map[string]int{root: 0}
	queue := []string{root}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range adj[curr] {
			if _, seen := layers[next]; seen {
				continue
			}
			layers[next] = layers[curr] + 1
			queue = append(queue, next)
		}
	}
	return layers
}

// assignOrphans gives every id missing from layers a random layer drawn from
// orphanLayers. The value only decides a plausible ring radius; it carries no
// structural meaning.
func assignOrphans(ids []string, layers map[string]int, rng *rand.Rand) {
	for _, id := range ids {
		if _, ok := layers[id]; ok {
			continue
		}
		layers[id] = orphanLayers[rng.IntN(len(orphanLayers))]
	}
}
