package lib

import "encoding/json"

/*
	This file implements the notification records the state machine emits for observability.
	Delivery is fire-and-forget: events are collected per operation and handed to a sink,
	they are never required for correctness.
*/

type EventType string

const (
	EventTypePairCreated      EventType = "pair-created"
	EventTypeLiquidityAdded   EventType = "liquidity-added"
	EventTypeLiquidityRemoved EventType = "liquidity-removed"
	EventTypeSwap             EventType = "swap"
	EventTypeProtocolFee      EventType = "protocol-fee-updated"
)

// Event is a single structured notification record
type Event struct {
	EventType EventType       `json:"eventType"`
	Address   HexBytes        `json:"address,omitempty"` // the actor the event is about
	Sequence  uint64          `json:"sequence"`          // tracker-local ordering
	Msg       json.RawMessage `json:"msg,omitempty"`     // the typed payload
}

type Events []*Event

// EventSinkI receives emitted events; implementations must not fail the operation
type EventSinkI interface {
	Emit(e *Event)
}

// EventsTracker collects the events of the current operation before they are flushed to the sink
type EventsTracker struct {
	sink     EventSinkI
	sequence uint64
	events   Events
}

// NewEventsTracker() creates a tracker flushing to the given sink; a nil sink discards
func NewEventsTracker(sink EventSinkI) *EventsTracker {
	return &EventsTracker{sink: sink}
}

// Add() appends an event to the tracker, stamping its sequence
func (t *EventsTracker) Add(event *Event) ErrorI {
	if t == nil {
		return ErrEmptyEventsTracker()
	}
	event.Sequence = t.sequence
	t.sequence++
	t.events = append(t.events, event)
	return nil
}

// Flush() delivers the captured events to the sink and resets the tracker
func (t *EventsTracker) Flush() {
	if t == nil {
		return
	}
	for _, e := range t.events {
		if t.sink != nil {
			t.sink.Emit(e)
		}
	}
	t.events = nil
}

// Reset() drops the captured events without delivery, used when an operation fails
func (t *EventsTracker) Reset() (e Events) {
	if t == nil {
		return
	}
	e = t.events
	t.events = nil
	return
}

// Events() is an accessor for the currently captured events
func (t *EventsTracker) Events() Events { return t.events }

// LogSink writes events to the logger as structured JSON lines
type LogSink struct {
	Log LoggerI
}

func (s *LogSink) Emit(e *Event) {
	bz, err := Marshal(e)
	if err != nil {
		s.Log.Error(err.Error())
		return
	}
	s.Log.Infof("event %s: %s", e.EventType, string(bz))
}
