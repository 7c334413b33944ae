package kv

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sync"
)

// nodeRecordSize is the packed [u64 id | i32 lat | i32 lon] record from
// spec.md §6's "Intermediate nodes (Index mode)" format.
const nodeRecordSize = 8 + 4 + 4

// IndexNodeCache is the "Index" backend: a hash map from node id to
// (lat,lon), kept live in memory and mirrored to an append-only log file so
// a crashed run can be replayed. At open, any existing log is scanned once
// into the map.
type IndexNodeCache struct {
	mu  sync.RWMutex
	m   map[int64][2]int32
	log *os.File
	w   *bufio.Writer
}

func NewIndexNodeCache(logFile *os.File) (*IndexNodeCache, error) {
	c := &IndexNodeCache{
		m:   make(map[int64][2]int32),
		log: logFile,
	}
	if err := c.replay(); err != nil {
		return nil, err
	}
	c.w = bufio.NewWriterSize(logFile, 1<<20)
	return c, nil
}

func (c *IndexNodeCache) replay() error {
	if _, err := c.log.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r := bufio.NewReaderSize(c.log, 1<<20)
	buf := make([]byte, nodeRecordSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return err
		}
		id := int64(binary.LittleEndian.Uint64(buf[0:8]))
		lat := int32(binary.LittleEndian.Uint32(buf[8:12]))
		lon := int32(binary.LittleEndian.Uint32(buf[12:16]))
		c.m[id] = [2]int32{lat, lon}
	}
	if _, err := c.log.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	return nil
}

var _ KVS[int64, [2]float64] = (*IndexNodeCache)(nil)

func (c *IndexNodeCache) Set(id int64, point [2]float64) {
	lat, lon := toFixed(point[0]), toFixed(point[1])

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.m[id]; ok && existing == [2]int32{lat, lon} {
		return
	}
	c.m[id] = [2]int32{lat, lon}

	var buf [nodeRecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(id))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(lat))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(lon))
	c.w.Write(buf[:])
}

func (c *IndexNodeCache) Get(id int64) ([2]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.m[id]
	if !ok || (p[0] == sentinelCoord && p[1] == sentinelCoord) {
		return [2]float64{}, false
	}
	return [2]float64{fromFixed(p[0]), fromFixed(p[1])}, true
}

func (c *IndexNodeCache) Range(f func(id int64, point [2]float64) bool) {
	c.mu.RLock()
	snapshot := make(map[int64][2]int32, len(c.m))
	for k, v := range c.m {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	for id, p := range snapshot {
		if p[0] == sentinelCoord && p[1] == sentinelCoord {
			continue
		}
		if !f(id, [2]float64{fromFixed(p[0]), fromFixed(p[1])}) {
			return
		}
	}
}

func (c *IndexNodeCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Flush()
}

func (c *IndexNodeCache) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	return c.log.Close()
}
