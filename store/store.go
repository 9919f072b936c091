package store

import (
	"path/filepath"

	"github.com/basin-network/basin/lib"
	"github.com/dgraph-io/badger/v4"
)

const maxKeyBytes = 256 // maximum size of a key

var _ lib.StoreI = &Store{} // enforce the Store interface

/*
	The Store is a thin abstraction over a single BadgerDB instance holding the
	registry, pair, and custody records of the exchange.

	Writes accumulate in a long-lived badger transaction (the writer) and only
	become durable on Commit(). Operation-level atomicity is layered on top with
	Txn objects (see txn.go) so that a failed operation can be rolled back without
	touching the writer at all.
*/

type Store struct {
	db     *badger.DB  // underlying database
	writer *badger.Txn // the pending write set, committed as one unit
	log    lib.LoggerI // logger
}

// New() creates a new instance of a StoreI either in memory or an actual disk DB
func New(config lib.Config, log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	if config.StoreConfig.InMemory {
		return NewStoreInMemory(log)
	}
	return NewStore(config, filepath.Join(config.DataDirPath, config.DBName), log)
}

// NewStore() creates a new instance of a disk DB
func NewStore(config lib.Config, path string, log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	logSize, err := config.StoreConfig.ParseValueLogSize()
	if err != nil {
		return nil, err
	}
	db, e := badger.Open(badger.DefaultOptions(path).
		WithValueLogFileSize(logSize).
		WithLoggingLevel(badger.ERROR))
	if e != nil {
		return nil, ErrOpenDB(e)
	}
	return &Store{db: db, writer: db.NewTransaction(true), log: log}, nil
}

// NewStoreInMemory() creates a new non-durable instance, used for testing
func NewStoreInMemory(log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return &Store{db: db, writer: db.NewTransaction(true), log: log}, nil
}

// Get() retrieves the value under a key
// NOTE: returns (nil, nil) when the key is absent
func (s *Store) Get(key []byte) ([]byte, lib.ErrorI) {
	item, err := s.writer.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, ErrStoreGet(err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, ErrStoreGet(err)
	}
	return value, nil
}

// Set() upserts a key-value pair in the pending write set
func (s *Store) Set(key, value []byte) lib.ErrorI {
	if len(key) > maxKeyBytes {
		return ErrMaxKeyLength(key)
	}
	if err := s.writer.Set(key, value); err != nil {
		return ErrStoreSet(err)
	}
	return nil
}

// Delete() removes a key-value pair in the pending write set
func (s *Store) Delete(key []byte) lib.ErrorI {
	if err := s.writer.Delete(key); err != nil {
		return ErrStoreDelete(err)
	}
	return nil
}

// Iterator() walks the merged view of pending writes and durable state under a prefix
func (s *Store) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	it := s.writer.NewIterator(badger.IteratorOptions{
		Prefix:         prefix,
		PrefetchValues: true,
	})
	it.Rewind()
	return &Iterator{parent: it}, nil
}

// NewTxn() spawns an in-memory overlay for an all-or-nothing operation
func (s *Store) NewTxn() lib.StoreTxnI {
	return NewTxn(s)
}

// Commit() makes the pending write set durable and starts a fresh one
func (s *Store) Commit() lib.ErrorI {
	if err := s.writer.Commit(); err != nil {
		return ErrCommitDB(err)
	}
	s.writer = s.db.NewTransaction(true)
	return nil
}

// Discard() throws the pending write set away and starts a fresh one
func (s *Store) Discard() {
	s.writer.Discard()
	s.writer = s.db.NewTransaction(true)
}

// Close() discards pending writes and closes the underlying database
func (s *Store) Close() lib.ErrorI {
	s.writer.Discard()
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// Iterator satisfies lib.IteratorI over a badger iterator
type Iterator struct {
	parent *badger.Iterator
}

var _ lib.IteratorI = &Iterator{}

func (i *Iterator) Valid() bool { return i.parent.Valid() }
func (i *Iterator) Next()       { i.parent.Next() }
func (i *Iterator) Key() []byte { return i.parent.Item().KeyCopy(nil) }
func (i *Iterator) Value() []byte {
	value, err := i.parent.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	return value
}
func (i *Iterator) Close() { i.parent.Close() }
