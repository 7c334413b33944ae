package kv

import (
	"os"
	"sync"
)

// FileKVS is the "arena" intermediate-data pattern used for ways and
// relations: an append-only payload file of variable-sized records plus an
// in-memory map from key to the record's offset and size. The map keeps no
// key order, so Range visits keys in no particular order.
type block struct {
	offset uint32
	size   uint32
}

type FileKVS[K ~int64, V ValueBytes[V]] struct {
	mu          sync.RWMutex
	offsets     map[K]block
	file        *os.File
	writeOffset uint64
}

func NewFileKV[K ~int64, V ValueBytes[V]](file *os.File) *FileKVS[K, V] {
	return &FileKVS[K, V]{
		offsets: make(map[K]block),
		file:    file,
	}
}

var _ KVS[int64, value] = (*FileKVS[int64, value])(nil)

// Get implements KVS
func (m *FileKVS[K, V]) Get(key K) (v V, ok bool) {
	m.mu.RLock()
	b, ok := m.offsets[key]
	m.mu.RUnlock()
	if !ok {
		return v, false
	}

	data := make([]byte, b.size)
	if _, err := m.file.ReadAt(data, int64(b.offset)); err != nil {
		panic(err)
	}

	return v.FromBytes(data), true
}

// Set implements KVS. Last write wins: the offset map is updated even when
// the key was already present, and the old payload bytes are left as
// unreferenced garbage in the file (the file is never rewritten in place).
func (m *FileKVS[K, V]) Set(key K, value V) {
	data := value.ToBytes()

	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.file.WriteAt(data, int64(m.writeOffset))
	if err != nil {
		panic(err)
	}
	m.offsets[key] = block{
		offset: uint32(m.writeOffset),
		size:   uint32(n),
	}
	m.writeOffset += uint64(n)
}

func (m *FileKVS[K, V]) Range(f func(key K, value V) bool) {
	m.mu.RLock()
	offsets := make(map[K]block, len(m.offsets))
	for k, b := range m.offsets {
		offsets[k] = b
	}
	m.mu.RUnlock()

	for k, b := range offsets {
		data := make([]byte, b.size)
		if _, err := m.file.ReadAt(data, int64(b.offset)); err != nil {
			panic(err)
		}
		var val V
		if !f(k, val.FromBytes(data)) {
			return
		}
	}
}

func (m *FileKVS[K, V]) Flush() error {
	return m.file.Sync()
}

func (m *FileKVS[K, V]) Close() error {
	m.mu.Lock()
	m.offsets = nil
	m.mu.Unlock()
	return m.file.Close()
}

// value is a placeholder type used only to anchor the var _ assertion above
// to a concrete ValueBytes implementation without importing one.
type value struct{}

func (value) ToBytes() []byte       { return nil }
func (value) FromBytes([]byte) value { return value{} }
