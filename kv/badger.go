package kv

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// BadgerKVS is a pluggable intermediate-element backend, chosen when a run
// wants crash-safe transactional writes over the simpler append-only
// FileKVS arena.
type BadgerKVS[K BinKey, V ValueBytes[V]] struct {
	db    *badger.DB
	batch *badger.WriteBatch
	log   *slog.Logger
}

func NewBadgerKVS[K BinKey, V ValueBytes[V]](db *badger.DB) *BadgerKVS[K, V] {
	batch := db.NewWriteBatch()
	batch.SetMaxPendingTxns(1024 * 5)

	return &BadgerKVS[K, V]{
		db:    db,
		batch: batch,
		log:   slog.With("component", "badger-kv"),
	}
}

// Set implements KVS
func (kvs *BadgerKVS[K, V]) Set(key K, value V) {
	if err := kvs.batch.Set(keyBytes(key), value.ToBytes()); err != nil {
		kvs.log.Error("failed to set value", "error", err)
	}
}

// Get implements KVS
func (kvs *BadgerKVS[K, V]) Get(key K) (value V, ok bool) {
	err := kvs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBytes(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(body []byte) error {
			value = value.FromBytes(body)
			ok = true
			return nil
		})
	})
	if err != nil {
		kvs.log.Error("failed to get value", "error", err)
	}

	return value, ok
}

func (kvs *BadgerKVS[K, V]) Flush() error {
	return kvs.batch.Flush()
}

func (kvs *BadgerKVS[K, V]) Range(iterCall func(key K, value V) bool) {
	kvs.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var v V
			err := item.Value(func(body []byte) error {
				v = v.FromBytes(body)
				return nil
			})
			if err != nil {
				return err
			}

			if !iterCall(keyFromBytes[K](item.KeyCopy(nil)), v) {
				return nil
			}
		}

		return nil
	})
}

func (kvs *BadgerKVS[K, V]) Close() error {
	if err := kvs.batch.Flush(); err != nil {
		return err
	}
	return kvs.db.Close()
}
