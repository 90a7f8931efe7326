// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"context"
	"testing"
	"time"

	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/events"
	"github.com/square/flowlimit/test/helpers"
)

func testConfig() *config.ServiceConfig {
	cfg := config.NewDefaultServiceConfig()

	alpha := config.NewDefaultFlowConfig("alpha")
	alpha.Limit = 512
	helpers.PanicError(config.AddFlow(cfg, alpha))

	beta := config.NewDefaultFlowConfig("beta")
	beta.Limit = 100
	helpers.PanicError(config.AddFlow(cfg, beta))

	return cfg
}

func startTestServer(t *testing.T, cfg *config.ServiceConfig) (Server, FlowService) {
	me := &MockEndpoint{}
	s := NewWithDefaultConfig(cfg, me)

	if _, err := s.Start(); err != nil {
		t.Fatalf("Could not start server: %v", err)
	}

	return s, me.FlowService
}

// waitFor polls cond until it holds or the deadline passes. Config changes propagate
// asynchronously through the persister watcher, so tests observe them with retries.
func waitFor(t *testing.T, msg string, cond func() bool) {
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServerFlowsFromConfig(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	limit, err := fs.GetLimit("alpha")
	if err != nil {
		t.Fatalf("GetLimit failed: %v", err)
	}

	if limit != 512 {
		t.Fatalf("Expected limit 512, was %v", limit)
	}

	if err := fs.Take(context.Background(), "alpha", 32); err != nil {
		t.Fatalf("Take failed: %v", err)
	}
}

func TestServerUnknownFlow(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	err := fs.Take(context.Background(), "nonexistent", 1)
	if err == nil {
		t.Fatal("Expected error taking from unknown flow")
	}

	if flErr, ok := err.(FlowLimitError); !ok || flErr.Reason != ER_NO_SUCH_FLOW {
		t.Fatalf("Expected ER_NO_SUCH_FLOW, got %v", err)
	}

	if _, err := fs.GetLimit("nonexistent"); err == nil {
		t.Fatal("Expected error getting limit of unknown flow")
	}

	if _, err := fs.PrevAllowed("nonexistent"); err == nil {
		t.Fatal("Expected error getting prevAllowed of unknown flow")
	}
}

func TestServerSetLimit(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	if err := fs.SetLimit("alpha", 1000); err != nil {
		t.Fatalf("SetLimit failed: %v", err)
	}

	limit, err := fs.GetLimit("alpha")
	if err != nil {
		t.Fatalf("GetLimit failed: %v", err)
	}

	if limit != 1000 {
		t.Fatalf("Expected limit 1000, was %v", limit)
	}

	if err := fs.SetLimit("alpha", 0); err == nil {
		t.Fatal("Expected error setting zero limit")
	}

	if err := fs.SetLimit("nonexistent", 10); err == nil {
		t.Fatal("Expected error setting limit on unknown flow")
	}
}

func TestServerJoin(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	if err := fs.Join("alpha"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if err := fs.Join("nonexistent"); err == nil {
		t.Fatal("Expected error joining unknown flow")
	}
}

func TestServerCreateDynamicFlow(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	if err := fs.Create("dynamic", 256, time.Second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := fs.Create("dynamic", 256, time.Second); err == nil {
		t.Fatal("Expected error creating duplicate flow")
	}

	limit, err := fs.GetLimit("dynamic")
	if err != nil {
		t.Fatalf("GetLimit failed: %v", err)
	}

	if limit != 256 {
		t.Fatalf("Expected limit 256, was %v", limit)
	}
}

func TestServerAddFlowViaAdmin(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	srv := s.(*server)

	gamma := config.NewDefaultFlowConfig("gamma")
	gamma.Limit = 64
	if err := srv.AddFlow(gamma, "tester"); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	waitFor(t, "Flow gamma never appeared", func() bool {
		limit, err := fs.GetLimit("gamma")
		return err == nil && limit == 64
	})
}

func TestServerUpdateFlowViaAdmin(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	srv := s.(*server)

	updated := config.NewDefaultFlowConfig("beta")
	updated.Limit = 5000
	if err := srv.UpdateFlow(updated, "tester"); err != nil {
		t.Fatalf("UpdateFlow failed: %v", err)
	}

	waitFor(t, "Flow beta limit never updated", func() bool {
		limit, err := fs.GetLimit("beta")
		return err == nil && limit == 5000
	})
}

func TestServerDeleteFlowViaAdmin(t *testing.T) {
	s, fs := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	srv := s.(*server)

	if err := srv.DeleteFlow("beta", "tester"); err != nil {
		t.Fatalf("DeleteFlow failed: %v", err)
	}

	waitFor(t, "Flow beta never removed", func() bool {
		_, err := fs.GetLimit("beta")
		return err != nil
	})
}

func TestServerConfigVersioning(t *testing.T) {
	s, _ := startTestServer(t, testConfig())
	defer func() { _, _ = s.Stop() }()

	srv := s.(*server)
	startVersion := srv.Configs().Version

	gamma := config.NewDefaultFlowConfig("versioned")
	if err := srv.AddFlow(gamma, "tester"); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	waitFor(t, "Config version never bumped", func() bool {
		return srv.Configs().Version == startVersion+1
	})

	if user := srv.Configs().User; user != "tester" {
		t.Fatalf("Expected config user tester, was %v", user)
	}
}

func TestServerEvents(t *testing.T) {
	me := &MockEndpoint{}
	s := NewWithDefaultConfig(testConfig(), me)

	eventsCh := make(chan events.Event, 100)
	s.SetListener(func(e events.Event) {
		eventsCh <- e
	}, 100)

	if _, err := s.Start(); err != nil {
		t.Fatalf("Could not start server: %v", err)
	}
	defer func() { _, _ = s.Stop() }()

	fs := me.FlowService

	if err := fs.Take(context.Background(), "alpha", 32); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	expectEvent(t, eventsCh, events.EVENT_TOKENS_ADMITTED, "alpha", 32)

	_ = fs.Take(context.Background(), "nonexistent", 1)
	expectEvent(t, eventsCh, events.EVENT_FLOW_MISS, "nonexistent", 0)
}

func expectEvent(t *testing.T, ch chan events.Event, et events.EventType, flow string, tokens int64) {
	deadline := time.After(2 * time.Second)

	for {
		select {
		case e := <-ch:
			if e.EventType() != et {
				// Flow lifecycle events from startup may still be queued.
				continue
			}

			if e.FlowName() != flow {
				t.Fatalf("Expected event for flow %v, got %v", flow, e.FlowName())
			}

			if e.NumTokens() != tokens {
				t.Fatalf("Expected event with %v tokens, got %v", tokens, e.NumTokens())
			}

			return
		case <-deadline:
			t.Fatalf("Never received event %v for flow %v", et, flow)
		}
	}
}
