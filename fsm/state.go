package fsm

import (
	"runtime/debug"
	"time"

	"github.com/basin-network/basin/lib"
)

// StateMachine is the core accounting component responsible for maintaining and updating the
// state of the exchange: the registry, the trading pairs, and the custody balances.
// All state access flows through its store facade so an operation can be layered over a
// transaction and rolled back as one unit.
type StateMachine struct {
	store lib.RWStoreI

	Config  lib.Config
	events  *lib.EventsTracker
	metrics *lib.Metrics
	log     lib.LoggerI
}

// New() creates a new instance of a StateMachine over the given store
func New(c lib.Config, store lib.StoreI, metrics *lib.Metrics, log lib.LoggerI) *StateMachine {
	return &StateMachine{
		store:   store,
		Config:  c,
		events:  lib.NewEventsTracker(&lib.LogSink{Log: log}),
		metrics: metrics,
		log:     log,
	}
}

// ApplyMessage() executes a single operation against the state with an all-or-nothing contract:
// the message is validated, handled inside a transaction overlay, and the overlay is only
// written through once the handler fully succeeds. On any failure the captured events are
// dropped and the state is untouched.
func (s *StateMachine) ApplyMessage(msg lib.MessageI) (err lib.ErrorI) {
	start := time.Now()
	defer func() {
		s.metrics.UpdateOperationTime(start)
		s.metrics.CountFailure(err)
	}()
	// stateless validation first, before any store interaction
	if err = msg.Check(); err != nil {
		return
	}
	// wrap the store in a discardable transaction
	base := s.store
	txn, err := s.TxnWrap()
	if err != nil {
		return
	}
	// the overlay only lives for this operation; a recovered panic must be seen
	// here, before the write-or-discard decision
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(string(debug.Stack()))
			err = lib.ErrPanic()
		}
		s.SetStore(base)
		if err != nil {
			s.events.Reset()
			txn.Discard()
			return
		}
		if err = txn.Write(); err != nil {
			s.events.Reset()
			return
		}
		s.events.Flush()
	}()
	err = s.HandleMessage(msg)
	return
}

// Set() upserts a key-value pair under a key
func (s *StateMachine) Set(k, v []byte) lib.ErrorI {
	store := s.Store()
	if err := store.Set(k, v); err != nil {
		return err
	}
	return nil
}

// Get() retrieves a key-value pair under a key
// NOTE: returns (nil, nil) if no value is found for that key
func (s *StateMachine) Get(key []byte) ([]byte, lib.ErrorI) {
	store := s.Store()
	bz, err := store.Get(key)
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// Delete() deletes a key-value pair under a key
func (s *StateMachine) Delete(key []byte) lib.ErrorI {
	store := s.Store()
	if err := store.Delete(key); err != nil {
		return err
	}
	return nil
}

// Iterator() creates and returns an iterator for the state machine's underlying store
// starting at the specified key and iterating lexicographically
func (s *StateMachine) Iterator(key []byte) (lib.IteratorI, lib.ErrorI) {
	store := s.Store()
	it, err := store.Iterator(key)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// IterateAndExecute() creates an iterator and executes a callback function for each key-value pair
func (s *StateMachine) IterateAndExecute(prefix []byte, callback func(key, value []byte) lib.ErrorI) lib.ErrorI {
	it, err := s.Iterator(prefix)
	if err != nil {
		return err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		if err = callback(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return nil
}

// TxnWrap() is an atomicity and consistency feature that enables easy rollback of changes by
// discarding the transaction if an error occurs
func (s *StateMachine) TxnWrap() (lib.StoreTxnI, lib.ErrorI) {
	store, ok := s.store.(lib.StoreI)
	if !ok {
		return nil, ErrWrongStoreType()
	}
	txn := store.NewTxn()
	s.SetStore(txn)
	return txn, nil
}

// Commit() makes the applied operations durable
func (s *StateMachine) Commit() lib.ErrorI {
	store, ok := s.store.(lib.StoreI)
	if !ok {
		return ErrWrongStoreType()
	}
	return store.Commit()
}

func (s *StateMachine) Store() lib.RWStoreI         { return s.store }
func (s *StateMachine) SetStore(store lib.RWStoreI) { s.store = store }
func (s *StateMachine) Events() *lib.EventsTracker  { return s.events }
