package kv

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type Byter interface {
	ToBytes() []byte
}

type DeByter[V any] interface {
	FromBytes([]byte) V
}

type ValueBytes[V any] interface {
	Byter
	DeByter[V]
}

// BinKey includes only KVS-compatible types, matching the constraint
// binary.Write accepts plus string (handled specially below).
type BinKey interface {
	comparable
	~string | ~bool | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~[]bool | ~[]uint8 | ~[]int8 | ~[]int16 | ~[]uint16 | ~[]int32 | ~[]uint32 | ~[]int64 | ~[]uint64 |
		~float32 | ~float64 | ~[]float32 | ~[]float64
}

// LevelDbKVS is a pluggable intermediate-element backend: an alternative to
// FileKVS for ways/relations, or a node cache when Index mode is configured
// to persist its hash map beyond one run.
type LevelDbKVS[K BinKey, V ValueBytes[V]] struct {
	db     *leveldb.DB
	writer *writeCache[K, V]
}

func NewLevelDbKV[K BinKey, V ValueBytes[V]](db *leveldb.DB) *LevelDbKVS[K, V] {
	writer := newWriteCache[K, V](db)
	writer.Run()
	return &LevelDbKVS[K, V]{
		db:     db,
		writer: writer,
	}
}

// Set implements KVS
func (kvs *LevelDbKVS[K, V]) Set(key K, value V) {
	kvs.writer.Put(key, value)
}

// Get implements KVS
func (kvs *LevelDbKVS[K, V]) Get(key K) (V, bool) {
	kvs.writer.Flush()

	var value V
	body, err := kvs.db.Get(keyBytes(key), &opt.ReadOptions{})
	if err != nil {
		return value, false
	}
	return value.FromBytes(body), true
}

func (kvs *LevelDbKVS[K, V]) Flush() error {
	kvs.writer.Flush()
	return nil
}

// Close implements KVS
func (kvs *LevelDbKVS[K, V]) Close() error {
	kvs.writer.Close()
	return kvs.db.Close()
}

func (kvs *LevelDbKVS[K, V]) Range(f func(key K, value V) bool) {
	iter := kvs.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		var v V
		if !f(keyFromBytes[K](iter.Key()), v.FromBytes(iter.Value())) {
			return
		}
	}
}

func keyBytes[K BinKey](key K) []byte {
	buf := new(bytes.Buffer)
	if err := writeKey(buf, key); err != nil {
		panic(fmt.Errorf("kv: encoding key: %w", err))
	}
	return buf.Bytes()
}

// writeKey is a dirty hack to write string keys, wait for go update to
// remove it.
func writeKey(buf *bytes.Buffer, data any) error {
	switch v := data.(type) {
	case string:
		_, err := buf.WriteString(v)
		return err
	default:
		return binary.Write(buf, binary.LittleEndian, data)
	}
}

func keyFromBytes[K BinKey](b []byte) K {
	var k K
	switch any(k).(type) {
	case string:
		return any(string(b)).(K)
	default:
		_ = binary.Read(bytes.NewReader(b), binary.LittleEndian, &k)
		return k
	}
}
