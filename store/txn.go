package store

import (
	"bytes"
	"sort"
	"strings"

	"github.com/basin-network/basin/lib"
)

// enforce the StoreTxnI interface
var _ lib.StoreTxnI = &Txn{}

/*
	Txn acts like a database transaction layered over the parent store.
	It saves set/del operations in memory and allows the caller to Write() to the parent or Discard().
	When read from, it merges with the parent as if Write() had already been called.

	This is what gives every exchange operation its all-or-nothing contract: the
	state machine points at a Txn for the duration of the operation and only
	Write()s once all validation and arithmetic has passed.

	CONTRACT:
	- only safe when writing to a memory store like the badger writer as Write() is not atomic on its own
	- not thread safe
	- deleted values are recorded as nil
*/

type Txn struct {
	parent   lib.RWStoreI  // store to Write() to
	ops      map[string]op // [string(key)] -> set/del operations saved in memory
	sorted   []string      // ops keys sorted lexicographically; needed for iteration
	unsorted bool          // whether 'sorted' needs a re-sort before use
}

// op has the value portion of the operation and if it's a *delete* or a *set*
type op struct {
	value  []byte
	delete bool
}

// NewTxn() creates a new instance of a Txn with the specified parent store
func NewTxn(parent lib.RWStoreI) *Txn {
	return &Txn{parent: parent, ops: make(map[string]op)}
}

// Get() retrieves the value for a given key from either the in-memory operations or the parent store
func (t *Txn) Get(key []byte) ([]byte, lib.ErrorI) {
	if v, found := t.ops[string(key)]; found {
		return v.value, nil
	}
	return t.parent.Get(key)
}

// Set() records an upsert in memory
func (t *Txn) Set(key, value []byte) lib.ErrorI {
	t.update(string(key), op{value: value})
	return nil
}

// Delete() records a removal in memory
func (t *Txn) Delete(key []byte) lib.ErrorI {
	t.update(string(key), op{delete: true})
	return nil
}

// update() saves the operation and maintains the sorted key list
func (t *Txn) update(key string, o op) {
	if _, found := t.ops[key]; !found {
		t.sorted = append(t.sorted, key)
		t.unsorted = true
	}
	t.ops[key] = o
}

// Write() applies the in-memory operations to the parent store
func (t *Txn) Write() lib.ErrorI {
	for key, o := range t.ops {
		if o.delete {
			if err := t.parent.Delete([]byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := t.parent.Set([]byte(key), o.value); err != nil {
			return err
		}
	}
	t.Discard()
	return nil
}

// Discard() throws the in-memory operations away
func (t *Txn) Discard() {
	t.ops = make(map[string]op)
	t.sorted, t.unsorted = nil, false
}

// Iterator() walks the merged view of the in-memory operations and the parent store under a prefix
func (t *Txn) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := t.parent.Iterator(prefix)
	if err != nil {
		return nil, err
	}
	if t.unsorted {
		sort.Strings(t.sorted)
		t.unsorted = false
	}
	// narrow the sorted op keys down to the prefix window
	p := string(prefix)
	begin := sort.SearchStrings(t.sorted, p)
	end := begin
	for ; end < len(t.sorted); end++ {
		if !strings.HasPrefix(t.sorted[end], p) {
			break
		}
	}
	it := &TxnIterator{parent: parent, txn: t, keys: t.sorted[begin:end]}
	it.seek()
	return it, nil
}

// TxnIterator merges the sorted in-memory operations with the parent iterator,
// in-memory operations shadow the parent on key collision
type TxnIterator struct {
	parent lib.IteratorI
	txn    *Txn
	keys   []string // the op keys inside the prefix window
	index  int      // position in 'keys'
	useOps bool     // whether the current element comes from the ops
	valid  bool
}

var _ lib.IteratorI = &TxnIterator{}

func (i *TxnIterator) Valid() bool { return i.valid }

func (i *TxnIterator) Next() {
	if !i.valid {
		return
	}
	if i.useOps {
		i.index++
	} else {
		i.parent.Next()
	}
	i.seek()
}

func (i *TxnIterator) Key() []byte {
	if i.useOps {
		return []byte(i.keys[i.index])
	}
	return i.parent.Key()
}

func (i *TxnIterator) Value() []byte {
	if i.useOps {
		return i.txn.ops[i.keys[i.index]].value
	}
	return i.parent.Value()
}

func (i *TxnIterator) Close() { i.parent.Close() }

// seek() positions the iterator at the next live element of the merged view
func (i *TxnIterator) seek() {
	for {
		opsDone, parentDone := i.index >= len(i.keys), !i.parent.Valid()
		switch {
		case opsDone && parentDone:
			i.valid = false
			return
		case parentDone:
			i.useOps = true
		case opsDone:
			i.useOps = false
		default:
			// both sides live: take the smaller key, ops shadow the parent on a tie
			cmp := bytes.Compare([]byte(i.keys[i.index]), i.parent.Key())
			i.useOps = cmp <= 0
			if cmp == 0 {
				i.parent.Next()
			}
		}
		// deleted ops hide the element entirely
		if i.useOps && i.txn.ops[i.keys[i.index]].delete {
			i.index++
			continue
		}
		i.valid = true
		return
	}
}
