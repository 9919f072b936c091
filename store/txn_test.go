package store

import (
	"testing"

	"github.com/basin-network/basin/lib"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) lib.StoreI {
	db, err := NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreGetSetDelete(t *testing.T) {
	db := newTestStore(t)
	// absent keys read as (nil, nil)
	got, err := db.Get([]byte("missing"))
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)
	require.NoError(t, db.Delete([]byte("a")))
	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStoreMaxKeyLength(t *testing.T) {
	db := newTestStore(t)
	err := db.Set(make([]byte, maxKeyBytes+1), []byte("v"))
	require.Error(t, err)
	require.Equal(t, lib.CodeMaxKeyLength, err.Code())
}

func TestStoreCommitDurability(t *testing.T) {
	db := newTestStore(t)
	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	require.NoError(t, db.Commit())
	// a discard after commit only drops uncommitted writes
	require.NoError(t, db.Set([]byte("b"), []byte("2")))
	db.Discard()
	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestTxnOverlay(t *testing.T) {
	db := newTestStore(t)
	require.NoError(t, db.Set([]byte("a"), []byte("parent")))
	require.NoError(t, db.Set([]byte("b"), []byte("parent")))
	txn := db.NewTxn()
	// the overlay shadows the parent
	require.NoError(t, txn.Set([]byte("a"), []byte("txn")))
	require.NoError(t, txn.Delete([]byte("b")))
	got, err := txn.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("txn"), got)
	got, err = txn.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, got)
	// the parent is untouched until Write()
	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("parent"), got)
	require.NoError(t, txn.Write())
	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("txn"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestTxnDiscard(t *testing.T) {
	db := newTestStore(t)
	require.NoError(t, db.Set([]byte("a"), []byte("parent")))
	txn := db.NewTxn()
	require.NoError(t, txn.Set([]byte("a"), []byte("txn")))
	require.NoError(t, txn.Set([]byte("b"), []byte("txn")))
	txn.Discard()
	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("parent"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestTxnIteratorMerge(t *testing.T) {
	db := newTestStore(t)
	// parent holds p/1, p/3, p/5 and an element outside the prefix
	for _, k := range []string{"p/1", "p/3", "p/5", "q/1"} {
		require.NoError(t, db.Set([]byte(k), []byte("parent")))
	}
	txn := db.NewTxn()
	// overlay adds p/2, shadows p/3, deletes p/5
	require.NoError(t, txn.Set([]byte("p/2"), []byte("txn")))
	require.NoError(t, txn.Set([]byte("p/3"), []byte("txn")))
	require.NoError(t, txn.Delete([]byte("p/5")))
	it, err := txn.Iterator([]byte("p/"))
	require.NoError(t, err)
	defer it.Close()
	var keys, values []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	require.Equal(t, []string{"p/1", "p/2", "p/3"}, keys)
	require.Equal(t, []string{"parent", "txn", "txn"}, values)
}

func TestTxnIteratorOnlyOps(t *testing.T) {
	db := newTestStore(t)
	txn := db.NewTxn()
	require.NoError(t, txn.Set([]byte("p/2"), []byte("2")))
	require.NoError(t, txn.Set([]byte("p/1"), []byte("1")))
	it, err := txn.Iterator([]byte("p/"))
	require.NoError(t, err)
	defer it.Close()
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	// op keys come back sorted even when written out of order
	require.Equal(t, []string{"p/1", "p/2"}, keys)
}
