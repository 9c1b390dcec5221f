package pathmatrix

import "math"

// ShortestPath runs Dijkstra over the distance matrix and returns the
// ordered stop-id path from origin to destination. Every non-zero cell is
// treated as an edge, so on a complete matrix this reduces to direct-edge
// comparison but stays correct if the matrix is ever sparsified.
// Returns ErrStopNotInMatrix or ErrNoPath for the miss cases.
func ShortestPath(m *Matrix, originID, destinationID string) ([]string, error) {
	origin, ok := m.Index(originID)
	if !ok {
		return nil, ErrStopNotInMatrix
	}
	destination, ok := m.Index(destinationID)
	if !ok {
		return nil, ErrStopNotInMatrix
	}

	n := len(m.StopIDs)
	visited := make([]bool, n)
	dist := make([]float64, n)
	parent := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		parent[i] = -1
	}
	dist[origin] = 0

	for iter := 0; iter < n; iter++ {
		// Lowest tentative distance among unvisited vertices; ties resolve
		// to the lowest index for determinism.
		minIdx := -1
		minDist := math.Inf(1)
		for v := 0; v < n; v++ {
			if !visited[v] && dist[v] < minDist {
				minDist = dist[v]
				minIdx = v
			}
		}
		if minIdx == -1 {
			break
		}
		visited[minIdx] = true

		for v := 0; v < n; v++ {
			if visited[v] || m.Distances[minIdx][v] <= 0 {
				continue
			}
			if candidate := dist[minIdx] + m.Distances[minIdx][v]; candidate < dist[v] {
				dist[v] = candidate
				parent[v] = minIdx
			}
		}
	}

	if math.IsInf(dist[destination], 1) {
		return nil, ErrNoPath
	}

	var path []string
	for current := destination; current != -1; current = parent[current] {
		path = append(path, m.StopIDs[current])
	}
	// Reverse into origin-to-destination order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
