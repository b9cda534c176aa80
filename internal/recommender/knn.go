package recommender

import "sort"

// buildNeighbors returns, for every row, the indices of the k nearest rows by
// cosine distance (1 - similarity), nearest first. Each row is its own first
// neighbour; ties keep index order.
func buildNeighbors(scaled []Vector, k int) [][]int {
	n := len(scaled)
	if k > n {
		k = n
	}

	out := make([][]int, n)
	order := make([]int, 0, n)
	dist := make([]float64, n)
	for i := range scaled {
		order = order[:0]
		for j := range scaled {
			order = append(order, j)
			dist[j] = 1 - cosine(scaled[i], scaled[j])
		}
		sort.SliceStable(order, func(a, b int) bool {
			ia, ib := order[a], order[b]
			if ia == i || ib == i {
				return ia == i && ib != i
			}
			return dist[ia] < dist[ib]
		})
		out[i] = append([]int(nil), order[:k]...)
	}
	return out
}

// validNeighbors reports whether idx is a usable index for n rows with k
// neighbours each.
func validNeighbors(idx [][]int, n, k int) bool {
	if k > n {
		k = n
	}
	if len(idx) != n || (n > 0 && k < 1) {
		return false
	}
	for i, row := range idx {
		if len(row) != k || row[0] != i {
			return false
		}
		for _, j := range row {
			if j < 0 || j >= n {
				return false
			}
		}
	}
	return true
}
