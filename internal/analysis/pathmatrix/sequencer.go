package pathmatrix

import "math"

// exactSearchLimit is the largest stop count solved by exhaustive
// permutation search; above it the greedy heuristic takes over
// (8 stops means at most 7! = 5,040 permutations).
const exactSearchLimit = 8

// OrderStops finds a visiting order for the given stop ids that minimizes
// total sequential distance. The first id stays fixed as the start.
//
// 0-2 stops are returned as-is. 3-8 stops are solved exactly: permutations
// of the non-fixed stops are enumerated in lexicographic order over their
// input positions, and the first minimal tour encountered wins, so results
// are reproducible across runs. Above 8 stops a greedy nearest-neighbor
// walk is used with no local-search refinement; distance ties resolve to
// the earlier input position.
//
// If any requested id is absent from the matrix, the input order is
// returned unchanged.
func OrderStops(m *Matrix, stopIDs []string) []string {
	if len(stopIDs) <= 2 {
		return stopIDs
	}

	indices := make([]int, 0, len(stopIDs))
	for _, id := range stopIDs {
		idx, ok := m.Index(id)
		if !ok {
			return stopIDs // fall back rather than fail
		}
		indices = append(indices, idx)
	}

	var order []int
	if len(indices) <= exactSearchLimit {
		order = exactOrder(m, indices)
	} else {
		order = greedyOrder(m, indices)
	}

	result := make([]string, len(order))
	for i, idx := range order {
		result[i] = m.StopIDs[idx]
	}
	return result
}

// exactOrder enumerates all permutations of indices[1:] with indices[0]
// fixed and keeps the first minimum-distance tour
func exactOrder(m *Matrix, indices []int) []int {
	first := indices[0]
	remaining := make([]int, len(indices)-1)
	copy(remaining, indices[1:])

	best := make([]int, len(indices))
	copy(best, indices)
	bestDistance := math.Inf(1)

	current := make([]int, 0, len(indices))
	current = append(current, first)
	used := make([]bool, len(remaining))

	var permute func()
	permute = func() {
		if len(current) == len(indices) {
			total := tourDistance(m, current)
			if total < bestDistance {
				bestDistance = total
				copy(best, current)
			}
			return
		}
		for i := 0; i < len(remaining); i++ {
			if used[i] {
				continue
			}
			used[i] = true
			current = append(current, remaining[i])
			permute()
			current = current[:len(current)-1]
			used[i] = false
		}
	}
	permute()

	return best
}

// greedyOrder walks from the fixed start, always choosing the closest
// unvisited stop
func greedyOrder(m *Matrix, indices []int) []int {
	current := indices[0]
	unvisited := make([]int, len(indices)-1)
	copy(unvisited, indices[1:])

	order := make([]int, 0, len(indices))
	order = append(order, current)

	for len(unvisited) > 0 {
		nearestPos := 0
		nearestDist := m.Distances[current][unvisited[0]]
		for pos := 1; pos < len(unvisited); pos++ {
			if d := m.Distances[current][unvisited[pos]]; d < nearestDist {
				nearestDist = d
				nearestPos = pos
			}
		}

		current = unvisited[nearestPos]
		order = append(order, current)
		unvisited = append(unvisited[:nearestPos], unvisited[nearestPos+1:]...)
	}

	return order
}

// tourDistance sums consecutive distances along an index order
func tourDistance(m *Matrix, order []int) float64 {
	total := 0.0
	for i := 0; i < len(order)-1; i++ {
		total += m.Distances[order[i]][order[i+1]]
	}
	return total
}
