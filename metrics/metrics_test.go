// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package metrics

import (
	"testing"
	"time"

	"github.com/square/flowlimit/events"
)

func TestWaitTimeRecording(t *testing.T) {
	m := New()

	for _, wait := range []time.Duration{10, 20, 30, 40, 100} {
		m.HandleEvent(events.NewTokensAdmittedEvent("f", false, 1, wait*time.Millisecond))
	}

	if max := m.MaxWaitTime("f"); max < 90*time.Millisecond {
		t.Fatalf("Expected max near 100ms, got %v", max)
	}

	if p50 := m.WaitTimeAtQuantile("f", 50); p50 > 40*time.Millisecond {
		t.Fatalf("Expected median at or below 40ms, got %v", p50)
	}

	if mean := m.MeanWaitTime("f"); mean == 0 {
		t.Fatal("Expected non-zero mean")
	}
}

func TestOnlyAdmissionsRecorded(t *testing.T) {
	m := New()

	m.HandleEvent(events.NewRedRejectionEvent("f", false, 1))
	m.HandleEvent(events.NewBucketEmptyEvent("f", false, 1))
	m.HandleEvent(events.NewFlowCreatedEvent("f", false))

	if flows := m.Flows(); len(flows) != 0 {
		t.Fatalf("Expected no flows recorded, got %v", flows)
	}
}

func TestUnknownFlowZeroes(t *testing.T) {
	m := New()

	if m.WaitTimeAtQuantile("nope", 99) != 0 || m.MaxWaitTime("nope") != 0 {
		t.Fatal("Unknown flows should report zero wait times")
	}
}

func TestFlowsSorted(t *testing.T) {
	m := New()

	for _, f := range []string{"c", "a", "b"} {
		m.HandleEvent(events.NewTokensAdmittedEvent(f, false, 1, time.Millisecond))
	}

	flows := m.Flows()
	expected := []string{"a", "b", "c"}

	for i, f := range expected {
		if flows[i] != f {
			t.Fatalf("Expected %v, got %v", expected, flows)
		}
	}
}

func TestReset(t *testing.T) {
	m := New()

	m.HandleEvent(events.NewTokensAdmittedEvent("f", false, 1, 50*time.Millisecond))
	m.Reset()

	if max := m.MaxWaitTime("f"); max != 0 {
		t.Fatalf("Expected zero max after reset, got %v", max)
	}
}
