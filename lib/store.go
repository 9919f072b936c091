package lib

/* This file defines the persistence interfaces consumed by the state machine */

// RWStoreI is the minimal read-write surface the state machine operates against
type RWStoreI interface {
	Get(key []byte) ([]byte, ErrorI) // NOTE: returns (nil, nil) when the key is absent
	Set(key, value []byte) ErrorI
	Delete(key []byte) ErrorI
	Iterator(prefix []byte) (IteratorI, ErrorI)
}

// StoreI is the full durable store: a RWStoreI that can commit, rollback, and spawn nested txns
type StoreI interface {
	RWStoreI
	NewTxn() StoreTxnI
	Commit() ErrorI
	Discard()
	Close() ErrorI
}

// StoreTxnI is an in-memory overlay of write operations that can be written to the parent or thrown away,
// giving each operation all-or-nothing semantics
type StoreTxnI interface {
	RWStoreI
	Write() ErrorI
	Discard()
}

// IteratorI walks key-value pairs lexicographically under a prefix
type IteratorI interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Close()
}
