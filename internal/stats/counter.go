package stats

import (
	"cmp"
	"slices"
)

type entry struct {
	key   string
	count int
}

// counter accumulates counts per key and remembers first-seen order
type counter struct {
	index   map[string]int
	entries []entry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	i, ok := c.index[key]
	if !ok {
		i = len(c.entries)
		c.index[key] = i
		c.entries = append(c.entries, entry{key: key})
	}
	c.entries[i].count += n
}

// byKey returns the entries in ascending key order
func (c *counter) byKey() []entry {
	out := slices.Clone(c.entries)
	slices.SortFunc(out, func(a, b entry) int {
		return cmp.Compare(a.key, b.key)
	})
	return out
}

// top returns the n largest entries. Equal counts keep first-seen order.
func (c *counter) top(n int) []entry {
	out := slices.Clone(c.entries)
	slices.SortStableFunc(out, func(a, b entry) int {
		return cmp.Compare(b.count, a.count)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
