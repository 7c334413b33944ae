package kv

import "sync"

// sentinelCoord in both lat and lon marks an unwritten node slot. (0,0) is a valid
// intermediate coordinate pair only in the degenerate case of a node
// actually placed at the equator/prime-meridian intersection, which OSM
// data never contains in practice; spec.md treats it as "absent".
const sentinelCoord = 0

// MemoryNodeCache is the "Memory" backend of the intermediate node cache: a
// contiguous array of (lat,lon) pairs, indexed directly by node id, grown
// in blocks as higher ids are written. lat/lon are stored fixed-point as
// degrees*1e7, matching spec.md's intermediate node record.
type MemoryNodeCache struct {
	mu    sync.RWMutex
	lat   []int32
	lon   []int32
	count int
}

func NewMemoryNodeCache() *MemoryNodeCache {
	return &MemoryNodeCache{}
}

var _ KVS[int64, [2]float64] = (*MemoryNodeCache)(nil)

func (c *MemoryNodeCache) growLocked(id int64) {
	if id < int64(len(c.lat)) {
		return
	}
	newSize := nextBlockSize(int(id) + 1)
	lat := make([]int32, newSize)
	lon := make([]int32, newSize)
	copy(lat, c.lat)
	copy(lon, c.lon)
	c.lat = lat
	c.lon = lon
}

func nextBlockSize(n int) int {
	const block = 1 << 20 // ~1M nodes per growth step
	return ((n / block) + 1) * block
}

// Set implements KVS. put_node is idempotent for equal values; last write
// wins otherwise.
func (c *MemoryNodeCache) Set(id int64, point [2]float64) {
	lat, lon := toFixed(point[0]), toFixed(point[1])

	c.mu.Lock()
	defer c.mu.Unlock()

	c.growLocked(id)
	if c.lat[id] == 0 && c.lon[id] == 0 {
		c.count++
	}
	c.lat[id] = lat
	c.lon[id] = lon
}

// Get implements KVS. Returns false for the sentinel (0,0) slot and for
// any id beyond the array's current high-water mark.
func (c *MemoryNodeCache) Get(id int64) ([2]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id < 0 || id >= int64(len(c.lat)) {
		return [2]float64{}, false
	}
	lat, lon := c.lat[id], c.lon[id]
	if lat == sentinelCoord && lon == sentinelCoord {
		return [2]float64{}, false
	}
	return [2]float64{fromFixed(lat), fromFixed(lon)}, true
}

func (c *MemoryNodeCache) Range(f func(id int64, point [2]float64) bool) {
	c.mu.RLock()
	lat := append([]int32(nil), c.lat...)
	lon := append([]int32(nil), c.lon...)
	c.mu.RUnlock()

	for id := range lat {
		if lat[id] == sentinelCoord && lon[id] == sentinelCoord {
			continue
		}
		if !f(int64(id), [2]float64{fromFixed(lat[id]), fromFixed(lon[id])}) {
			return
		}
	}
}

func (c *MemoryNodeCache) Flush() error { return nil }

func (c *MemoryNodeCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lat, c.lon = nil, nil
	return nil
}

func (c *MemoryNodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

const fixedScale = 1e7

func toFixed(deg float64) int32   { return int32(deg * fixedScale) }
func fromFixed(v int32) float64   { return float64(v) / fixedScale }
