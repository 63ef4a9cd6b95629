package stats

import (
	"cmp"
	"slices"
)

// Frequency is a value and the number of rows holding it.
type Frequency[T comparable] struct {
	Value T   `json:"value"`
	Count int `json:"count"`
}

// counter tallies values and remembers the order they first appeared in.
type counter[T cmp.Ordered] struct {
	counts map[T]int
	order  []T
}

func newCounter[T cmp.Ordered]() *counter[T] {
	return &counter[T]{counts: make(map[T]int)}
}

func (c *counter[T]) add(v T) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter[T]) empty() bool {
	return len(c.order) == 0
}

// mode returns the most frequent value. Ties go to the smallest value.
func (c *counter[T]) mode() (Frequency[T], bool) {
	var best Frequency[T]
	if c.empty() {
		return best, false
	}
	for i, v := range c.order {
		n := c.counts[v]
		if i == 0 || n > best.Count || (n == best.Count && cmp.Less(v, best.Value)) {
			best = Frequency[T]{Value: v, Count: n}
		}
	}
	return best, true
}

// ranked returns every value ordered by count descending. Equal counts keep
// first-appearance order.
func (c *counter[T]) ranked() []Frequency[T] {
	out := make([]Frequency[T], len(c.order))
	for i, v := range c.order {
		out[i] = Frequency[T]{Value: v, Count: c.counts[v]}
	}
	slices.SortStableFunc(out, func(a, b Frequency[T]) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}
