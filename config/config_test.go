// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package config

import (
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	f := &FlowConfig{Name: "f"}
	ApplyFlowDefaults(f)

	if f.Limit != 100 {
		t.Fatalf("Expected default limit 100, was %v", f.Limit)
	}

	if f.IntervalMillis != 1000 {
		t.Fatalf("Expected default interval 1000ms, was %v", f.IntervalMillis)
	}

	if f.MaxIdleMillis != -1 {
		t.Fatalf("Expected default maxIdle -1, was %v", f.MaxIdleMillis)
	}
}

func TestDefaultsPreserveUnlimited(t *testing.T) {
	f := &FlowConfig{Name: "f", Limit: Unlimited}
	ApplyFlowDefaults(f)

	if f.Limit != Unlimited {
		t.Fatalf("Defaults should not clobber an unlimited limit; was %v", f.Limit)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := NewDefaultServiceConfig()
	cfg.Version = 7
	cfg.User = "someone"
	cfg.Date = 12345

	f := NewDefaultFlowConfig("round_trip")
	f.Limit = 512
	f.IntervalMillis = 250
	if err := AddFlow(cfg, f); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	b, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	read, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if read.Version != 7 || read.User != "someone" || read.Date != 12345 {
		t.Fatalf("Metadata did not survive round trip: %+v", read)
	}

	rf, exists := read.Flows["round_trip"]
	if !exists {
		t.Fatal("Flow missing after round trip")
	}

	if rf.Name != "round_trip" {
		t.Fatalf("Flow name not restored; was %q", rf.Name)
	}

	if rf.Limit != 512 || rf.IntervalMillis != 250 {
		t.Fatalf("Flow fields did not survive round trip: %+v", rf)
	}
}

func TestAddUpdateDeleteFlow(t *testing.T) {
	cfg := NewDefaultServiceConfig()

	f := NewDefaultFlowConfig("f")
	if err := AddFlow(cfg, f); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	if err := AddFlow(cfg, f); err == nil {
		t.Fatal("Expected error adding duplicate flow")
	}

	update := NewDefaultFlowConfig("f")
	update.Limit = 9000
	if err := UpdateFlow(cfg, update); err != nil {
		t.Fatalf("UpdateFlow failed: %v", err)
	}

	if cfg.Flows["f"].Limit != 9000 {
		t.Fatalf("Update did not apply; limit was %v", cfg.Flows["f"].Limit)
	}

	if err := UpdateFlow(cfg, NewDefaultFlowConfig("missing")); err == nil {
		t.Fatal("Expected error updating nonexistent flow")
	}

	if err := DeleteFlow(cfg, "f"); err != nil {
		t.Fatalf("DeleteFlow failed: %v", err)
	}

	if err := DeleteFlow(cfg, "f"); err == nil {
		t.Fatal("Expected error deleting nonexistent flow")
	}
}

func TestAddFlowEmptyName(t *testing.T) {
	cfg := NewDefaultServiceConfig()

	if err := AddFlow(cfg, &FlowConfig{}); err == nil {
		t.Fatal("Expected error adding flow with empty name")
	}
}

func TestCloneConfig(t *testing.T) {
	cfg := NewDefaultServiceConfig()
	if err := AddFlow(cfg, NewDefaultFlowConfig("f")); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	clone := CloneConfig(cfg)
	clone.Flows["f"].Limit = 42

	if cfg.Flows["f"].Limit == 42 {
		t.Fatal("Mutating a clone should not affect the original")
	}
}

func TestHashConfig(t *testing.T) {
	a := NewDefaultServiceConfig()
	b := NewDefaultServiceConfig()

	if HashConfig(a) != HashConfig(b) {
		t.Fatal("Identical configs should hash identically")
	}

	if err := AddFlow(b, NewDefaultFlowConfig("f")); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	if HashConfig(a) == HashConfig(b) {
		t.Fatal("Different configs should hash differently")
	}
}

func TestFlowNamesSorted(t *testing.T) {
	cfg := NewDefaultServiceConfig()
	for _, name := range []string{"c", "a", "b"} {
		if err := AddFlow(cfg, NewDefaultFlowConfig(name)); err != nil {
			t.Fatalf("AddFlow failed: %v", err)
		}
	}

	names := FlowNames(cfg)
	expected := []string{"a", "b", "c"}

	for i, n := range expected {
		if names[i] != n {
			t.Fatalf("Expected %v, got %v", expected, names)
		}
	}
}

func TestDifferentFlowConfigs(t *testing.T) {
	a := NewDefaultFlowConfig("f")
	b := NewDefaultFlowConfig("f")

	if DifferentFlowConfigs(a, b) {
		t.Fatal("Identical configs should not differ")
	}

	b.Limit = 9000
	if !DifferentFlowConfigs(a, b) {
		t.Fatal("Configs with different limits should differ")
	}

	if !DifferentFlowConfigs(a, nil) {
		t.Fatal("A config should differ from nil")
	}

	if DifferentFlowConfigs(nil, nil) {
		t.Fatal("Two nils should not differ")
	}
}
