package wrap

import (
	"slices"

	"github.com/dshills/wrapstore/internal/engine/text"
)

// cache holds the known prefix of wrapped line boundaries.
//
// starts[w] is the raw location where wrapped line w begins. firstWrapped[l]
// is the index in starts of raw line l's first fragment; it has one entry
// per start with column 0. complete is set once the last raw line's final
// fragment has been recorded.
type cache struct {
	starts       []text.Location
	firstWrapped []int
	complete     bool
}

func (c *cache) push(loc text.Location) {
	if loc.Column == 0 {
		c.firstWrapped = append(c.firstWrapped, len(c.starts))
	}
	c.starts = append(c.starts, loc)
}

// truncate keeps the first n wrapped lines.
func (c *cache) truncate(n int) {
	if n >= len(c.starts) {
		c.complete = false
		return
	}
	c.starts = c.starts[:n]
	for len(c.firstWrapped) > 0 && c.firstWrapped[len(c.firstWrapped)-1] >= n {
		c.firstWrapped = c.firstWrapped[:len(c.firstWrapped)-1]
	}
	c.complete = false
}

// truncateFrom drops every cached start at or after loc.
func (c *cache) truncateFrom(loc text.Location) {
	n, _ := slices.BinarySearchFunc(c.starts, loc, text.Location.Compare)
	c.truncate(n)
}

func (c *cache) reset() {
	c.starts = c.starts[:0]
	c.firstWrapped = c.firstWrapped[:0]
	c.complete = false
}

// contains reports whether every fragment of raw line l is cached, and
// how many there are.
func (c *cache) contains(l int) (int, bool) {
	if l < 0 || l >= len(c.firstWrapped) {
		return 0, false
	}
	if l+1 < len(c.firstWrapped) {
		return c.firstWrapped[l+1] - c.firstWrapped[l], true
	}
	if c.complete {
		return len(c.starts) - c.firstWrapped[l], true
	}
	return 0, false
}
