// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package events

import (
	"fmt"
	"time"

	"github.com/square/flowlimit/logging"
)

type EventType int

const (
	EVENT_TOKENS_ADMITTED EventType = iota
	EVENT_RED_REJECTION
	EVENT_BUCKET_EMPTY
	EVENT_TAKE_CANCELLED
	EVENT_FLOW_MISS
	EVENT_FLOW_CREATED
	EVENT_FLOW_REMOVED
)

var eventNames = []string{
	EVENT_TOKENS_ADMITTED: "EVENT_TOKENS_ADMITTED",
	EVENT_RED_REJECTION:   "EVENT_RED_REJECTION",
	EVENT_BUCKET_EMPTY:    "EVENT_BUCKET_EMPTY",
	EVENT_TAKE_CANCELLED:  "EVENT_TAKE_CANCELLED",
	EVENT_FLOW_MISS:       "EVENT_FLOW_MISS",
	EVENT_FLOW_CREATED:    "EVENT_FLOW_CREATED",
	EVENT_FLOW_REMOVED:    "EVENT_FLOW_REMOVED"}

func (et EventType) String() string {
	name := eventNames[et]
	if name == "" {
		panic(fmt.Sprintf("Don't know event %d", et))
	}

	return name
}

// Event is a notification of something that happened on a flow.
type Event interface {
	EventType() EventType
	FlowName() string
	Dynamic() bool
	NumTokens() int64
	WaitTime() time.Duration
}

// EventProducer is a hook into the notification system, to inform listeners that certain events
// take place.
type EventProducer struct {
	c chan Event
}

func (e *EventProducer) Emit(event Event) {
	select {
	case e.c <- event:
	// OK
	default:
		logging.Println("Event buffer full; dropping event.")
	}
}

func (e *EventProducer) notifyListeners(l Listener) {
	for event := range e.c {
		l(event)
	}
}

// Listener is a function that consumes an Event
type Listener func(details Event)

// RegisterListener takes a Listener and a buffer size and
// returns an EventProducer that consumes events and notifies listeners
func RegisterListener(listener Listener, bufsize int) *EventProducer {
	if listener == nil {
		panic("Cannot register a nil listener")
	}

	ep := &EventProducer{make(chan Event, bufsize)}

	go ep.notifyListeners(listener)

	return ep
}

type namedEvent struct {
	eventType EventType
	flowName  string
	dynamic   bool
}

func (n *namedEvent) String() string {
	return fmt.Sprintf("namedEvent{type: %v, flow: %v, dynamic: %v, numTokens: %v, waitTime: %v}",
		n.eventType, n.flowName, n.dynamic, 0, 0)
}

func (n *namedEvent) EventType() EventType {
	return n.eventType
}

func (n *namedEvent) FlowName() string {
	return n.flowName
}

func (n *namedEvent) Dynamic() bool {
	return n.dynamic
}

func (n *namedEvent) NumTokens() int64 {
	return 0
}

func (n *namedEvent) WaitTime() time.Duration {
	return 0
}

type tokenEvent struct {
	*namedEvent
	numTokens int64
}

func (t *tokenEvent) String() string {
	return fmt.Sprintf("tokenEvent{type: %v, flow: %v, dynamic: %v, numTokens: %v, waitTime: %v}",
		t.eventType, t.flowName, t.dynamic, t.numTokens, 0)
}

func (t *tokenEvent) NumTokens() int64 {
	return t.numTokens
}

type tokenWaitEvent struct {
	*tokenEvent
	waitTime time.Duration
}

func (t *tokenWaitEvent) String() string {
	return fmt.Sprintf("tokenWaitEvent{type: %v, flow: %v, dynamic: %v, numTokens: %v, waitTime: %v}",
		t.eventType, t.flowName, t.dynamic, t.numTokens, t.waitTime)
}

func (t *tokenWaitEvent) WaitTime() time.Duration {
	return t.waitTime
}

// NewTokensAdmittedEvent creates a new event with the type EVENT_TOKENS_ADMITTED. waitTime is the
// time from the start of the take until the full request was admitted, time parked on the
// waiter gate included.
func NewTokensAdmittedEvent(flowName string, dynamic bool, numTokens int64, waitTime time.Duration) Event {
	return &tokenWaitEvent{
		tokenEvent: &tokenEvent{
			namedEvent: newNamedEvent(flowName, dynamic, EVENT_TOKENS_ADMITTED),
			numTokens:  numTokens},
		waitTime: waitTime}
}

// NewRedRejectionEvent creates a new event with the type EVENT_RED_REJECTION
func NewRedRejectionEvent(flowName string, dynamic bool, numTokens int64) Event {
	return &tokenEvent{
		namedEvent: newNamedEvent(flowName, dynamic, EVENT_RED_REJECTION),
		numTokens:  numTokens}
}

// NewBucketEmptyEvent creates a new event with the type EVENT_BUCKET_EMPTY
func NewBucketEmptyEvent(flowName string, dynamic bool, numTokens int64) Event {
	return &tokenEvent{
		namedEvent: newNamedEvent(flowName, dynamic, EVENT_BUCKET_EMPTY),
		numTokens:  numTokens}
}

// NewTakeCancelledEvent creates a new event with the type EVENT_TAKE_CANCELLED
func NewTakeCancelledEvent(flowName string, dynamic bool, numTokens int64) Event {
	return &tokenEvent{
		namedEvent: newNamedEvent(flowName, dynamic, EVENT_TAKE_CANCELLED),
		numTokens:  numTokens}
}

// NewFlowMissedEvent creates a new event with the type EVENT_FLOW_MISS
func NewFlowMissedEvent(flowName string) Event {
	return newNamedEvent(flowName, false, EVENT_FLOW_MISS)
}

// NewFlowCreatedEvent creates a new event with the type EVENT_FLOW_CREATED
func NewFlowCreatedEvent(flowName string, dynamic bool) Event {
	return newNamedEvent(flowName, dynamic, EVENT_FLOW_CREATED)
}

// NewFlowRemovedEvent creates a new event with the type EVENT_FLOW_REMOVED
func NewFlowRemovedEvent(flowName string, dynamic bool) Event {
	return newNamedEvent(flowName, dynamic, EVENT_FLOW_REMOVED)
}

func newNamedEvent(flowName string, dynamic bool, eventType EventType) *namedEvent {
	return &namedEvent{
		eventType: eventType,
		flowName:  flowName,
		dynamic:   dynamic}
}

// NewNilProducer returns a producer that discards all events. Useful for tests and for endpoints
// that don't care about notifications.
func NewNilProducer() *EventProducer {
	return RegisterListener(func(Event) {}, 1)
}
