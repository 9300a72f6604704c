// Package vecmath holds the exact similarity search shared by the
// in-process condition stores.
package vecmath

import (
	"container/heap"
	"math"
	"sort"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors of different length or zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored pairs an item index with its similarity.
type Scored struct {
	Index int
	Score float64
}

// minHeap keeps the k best candidates with the worst on top.
type minHeap []Scored

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].Score == h[j].Score {
		return h[i].Index > h[j].Index
	}
	return h[i].Score < h[j].Score
}
func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)   { *h = append(*h, x.(Scored)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopK scores n candidates with score and returns the best k, ordered by
// descending score. Ties keep the lower index first so results are stable.
func TopK(n, k int, score func(i int) float64) []Scored {
	if k <= 0 || n == 0 {
		return nil
	}
	h := make(minHeap, 0, min(k, n))
	for i := 0; i < n; i++ {
		s := Scored{Index: i, Score: score(i)}
		if h.Len() < k {
			heap.Push(&h, s)
			continue
		}
		if s.Score > h[0].Score {
			h[0] = s
			heap.Fix(&h, 0)
		}
	}

	out := []Scored(h)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Index < out[j].Index
		}
		return out[i].Score > out[j].Score
	})
	return out
}
