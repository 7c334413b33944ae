package kv

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"golang.org/x/exp/mmap"
)

// FileNodeCache is the "File" backend: a fixed-record array indexed by node
// id like MemoryNodeCache, but backed by a file of interleaved i32 lat | i32
// lon records, so the OS page cache does the work instead of the Go heap.
// Writes go through the *os.File directly (WriteAt at id*record size); reads
// go through a read-only mmap.ReaderAt opened lazily once writing is done.
// No paging advice is given to the OS for either mode.
type FileNodeCache struct {
	mu   sync.RWMutex
	file *os.File
	path string
	size int64 // highest (id+1) written, in records

	reader *mmap.ReaderAt // nil until switched to read mode
}

func NewFileNodeCache(path string) (*FileNodeCache, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileNodeCache{
		file: f,
		path: path,
		size: info.Size() / nodeFixedRecordSize,
	}, nil
}

const nodeFixedRecordSize = 8 // i32 lat | i32 lon

var _ KVS[int64, [2]float64] = (*FileNodeCache)(nil)

// Set implements KVS. Writing switches the cache back to write mode,
// invalidating any open mmap reader.
func (c *FileNodeCache) Set(id int64, point [2]float64) {
	lat, lon := toFixed(point[0]), toFixed(point[1])

	var buf [nodeFixedRecordSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(lat))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(lon))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reader != nil {
		c.reader.Close()
		c.reader = nil
	}
	off := id * nodeFixedRecordSize
	if _, err := c.file.WriteAt(buf[:], off); err != nil {
		panic(err)
	}
	if id+1 > c.size {
		c.size = id + 1
	}
}

// openReaderLocked switches to mmap read mode once writing for the run has
// finished; c.mu must be held for writing on entry.
func (c *FileNodeCache) openReaderLocked() error {
	if c.reader != nil {
		return nil
	}
	if err := c.file.Sync(); err != nil {
		return err
	}
	r, err := mmap.Open(c.path)
	if err != nil {
		return err
	}
	c.reader = r
	return nil
}

func (c *FileNodeCache) Get(id int64) ([2]float64, bool) {
	c.mu.Lock()
	if err := c.openReaderLocked(); err != nil {
		c.mu.Unlock()
		panic(err)
	}
	reader := c.reader
	size := c.size
	c.mu.Unlock()

	if id < 0 || id >= size {
		return [2]float64{}, false
	}

	var buf [nodeFixedRecordSize]byte
	if _, err := reader.ReadAt(buf[:], id*nodeFixedRecordSize); err != nil && err != io.EOF {
		return [2]float64{}, false
	}
	lat := int32(binary.LittleEndian.Uint32(buf[0:4]))
	lon := int32(binary.LittleEndian.Uint32(buf[4:8]))
	if lat == sentinelCoord && lon == sentinelCoord {
		return [2]float64{}, false
	}
	return [2]float64{fromFixed(lat), fromFixed(lon)}, true
}

func (c *FileNodeCache) Range(f func(id int64, point [2]float64) bool) {
	c.mu.Lock()
	if err := c.openReaderLocked(); err != nil {
		c.mu.Unlock()
		panic(err)
	}
	reader := c.reader
	size := c.size
	c.mu.Unlock()

	buf := make([]byte, nodeFixedRecordSize)
	for id := int64(0); id < size; id++ {
		if _, err := reader.ReadAt(buf, id*nodeFixedRecordSize); err != nil && err != io.EOF {
			continue
		}
		lat := int32(binary.LittleEndian.Uint32(buf[0:4]))
		lon := int32(binary.LittleEndian.Uint32(buf[4:8]))
		if lat == sentinelCoord && lon == sentinelCoord {
			continue
		}
		if !f(id, [2]float64{fromFixed(lat), fromFixed(lon)}) {
			return
		}
	}
}

func (c *FileNodeCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Sync()
}

func (c *FileNodeCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reader != nil {
		c.reader.Close()
	}
	return c.file.Close()
}
