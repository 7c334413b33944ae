package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
)

type val[K BinKey, V ValueBytes[V]] struct {
	Key   K
	Value V
}

type writeCache[K BinKey, V ValueBytes[V]] struct {
	in         chan val[K, V]
	db         *leveldb.DB
	batchMutex sync.Mutex
	batch      *leveldb.Batch
	Buf        int
}

const defaultWriteCacheSize = 1024 * 1024

func newWriteCache[K BinKey, V ValueBytes[V]](db *leveldb.DB) *writeCache[K, V] {
	return &writeCache[K, V]{
		in:    make(chan val[K, V], defaultWriteCacheSize),
		db:    db,
		batch: &leveldb.Batch{},
		Buf:   defaultWriteCacheSize,
	}
}

func (w *writeCache[K, V]) Run() {
	go func() {
		for p := range w.in {
			w.batchMutex.Lock()
			w.batch.Put(keyBytes(p.Key), p.Value.ToBytes())
			full := w.batch.Len() > w.Buf
			w.batchMutex.Unlock()
			if full {
				w.Flush()
			}
		}
		w.Flush()
	}()
}

func (w *writeCache[K, V]) Flush() {
	w.batchMutex.Lock()
	defer w.batchMutex.Unlock()
	if w.batch.Len() > 0 {
		w.db.Write(w.batch, nil)
		w.batch.Reset()
	}
}

func (w *writeCache[K, V]) Put(key K, value V) {
	w.in <- val[K, V]{key, value}
}

func (w *writeCache[K, V]) Close() {
	close(w.in)
}
