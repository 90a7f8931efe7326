// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package events

import (
	"testing"
	"time"
)

func TestListenerReceivesEvents(t *testing.T) {
	received := make(chan Event, 10)
	ep := RegisterListener(func(e Event) {
		received <- e
	}, 10)

	ep.Emit(NewTokensAdmittedEvent("f", false, 32, 10*time.Millisecond))

	select {
	case e := <-received:
		if e.EventType() != EVENT_TOKENS_ADMITTED {
			t.Fatalf("Expected EVENT_TOKENS_ADMITTED, got %v", e.EventType())
		}

		if e.FlowName() != "f" || e.NumTokens() != 32 || e.WaitTime() != 10*time.Millisecond {
			t.Fatalf("Event fields wrong: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("Listener never received event")
	}
}

func TestFullBufferDropsEvents(t *testing.T) {
	block := make(chan struct{})
	ep := RegisterListener(func(e Event) {
		<-block
	}, 1)

	// The listener goroutine is blocked; fill the buffer and overflow it. Emit must never
	// block the caller.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			ep.Emit(NewRedRejectionEvent("f", false, 1))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit should not block when the buffer is full")
	}

	close(block)
}

func TestNilListenerPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Registering a nil listener should panic")
		}
	}()

	RegisterListener(nil, 1)
}

func TestEventAccessors(t *testing.T) {
	cases := []struct {
		e  Event
		et EventType
		n  int64
	}{
		{NewTokensAdmittedEvent("f", true, 10, time.Second), EVENT_TOKENS_ADMITTED, 10},
		{NewRedRejectionEvent("f", true, 5), EVENT_RED_REJECTION, 5},
		{NewBucketEmptyEvent("f", false, 7), EVENT_BUCKET_EMPTY, 7},
		{NewTakeCancelledEvent("f", false, 3), EVENT_TAKE_CANCELLED, 3},
		{NewFlowMissedEvent("f"), EVENT_FLOW_MISS, 0},
		{NewFlowCreatedEvent("f", true), EVENT_FLOW_CREATED, 0},
		{NewFlowRemovedEvent("f", false), EVENT_FLOW_REMOVED, 0},
	}

	for _, c := range cases {
		if c.e.EventType() != c.et {
			t.Fatalf("Expected %v, got %v", c.et, c.e.EventType())
		}

		if c.e.FlowName() != "f" {
			t.Fatalf("Expected flow f, got %v", c.e.FlowName())
		}

		if c.e.NumTokens() != c.n {
			t.Fatalf("Expected %v tokens on %v, got %v", c.n, c.et, c.e.NumTokens())
		}
	}
}

func TestEventTypeString(t *testing.T) {
	if EVENT_TOKENS_ADMITTED.String() != "EVENT_TOKENS_ADMITTED" {
		t.Fatalf("Unexpected name: %v", EVENT_TOKENS_ADMITTED.String())
	}
}
