package stellarium

// positionCache is a bounded JDE to position map evicting the oldest entry.
// It is owned by a single body and is not safe for concurrent use.
type positionCache struct {
	capacity int
	entries  map[float64][]float64
	order    []float64 // ring of keys, oldest at head
	head     int
}

func newPositionCache(capacity int) *positionCache {
	if capacity < 1 {
		capacity = 1
	}
	return &positionCache{capacity: capacity, entries: make(map[float64][]float64, capacity)}
}

// get returns a copy of the cached position.
func (c *positionCache) get(jde float64) ([]float64, bool) {
	pos, ok := c.entries[jde]
	if !ok {
		return nil, false
	}
	return vcopy(pos), true
}

// put stores a copy of the position and returns whether an entry was evicted.
func (c *positionCache) put(jde float64, pos []float64) (evicted bool) {
	if _, ok := c.entries[jde]; ok {
		c.entries[jde] = vcopy(pos)
		return false
	}
	if len(c.order) < c.capacity {
		c.order = append(c.order, jde)
	} else {
		delete(c.entries, c.order[c.head])
		c.order[c.head] = jde
		c.head = (c.head + 1) % c.capacity
		evicted = true
	}
	c.entries[jde] = vcopy(pos)
	return
}

// len returns the number of cached positions.
func (c *positionCache) len() int {
	return len(c.entries)
}
