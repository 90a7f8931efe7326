// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"

	"github.com/square/flowlimit/events"
	"github.com/square/flowlimit/logging"
)

const (
	// Wait times are recorded in milliseconds, up to an hour. Anything longer is clamped
	// before recording.
	minWaitMillis = 1
	maxWaitMillis = int64(time.Hour / time.Millisecond)
	sigFigs       = 3
)

type metrics struct {
	mu     sync.RWMutex
	histos map[string]*hdrhistogram.Histogram
}

// New creates an events-fed Metrics recorder. Wire it up as (or inside) an events listener on
// the server.
func New() Metrics {
	return &metrics{histos: make(map[string]*hdrhistogram.Histogram)}
}

func (m *metrics) HandleEvent(e events.Event) {
	if e.EventType() != events.EVENT_TOKENS_ADMITTED {
		return
	}

	millis := int64(e.WaitTime() / time.Millisecond)
	if millis > maxWaitMillis {
		millis = maxWaitMillis
	}

	m.mu.Lock()
	h, ok := m.histos[e.FlowName()]
	if !ok {
		h = hdrhistogram.New(minWaitMillis, maxWaitMillis, sigFigs)
		m.histos[e.FlowName()] = h
	}
	err := h.RecordValue(millis)
	m.mu.Unlock()

	if err != nil {
		logging.Printf("Could not record wait time %vms for flow %v: %v", millis, e.FlowName(), err)
	}
}

func (m *metrics) WaitTimeAtQuantile(flow string, q float64) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.histos[flow]
	if !ok {
		return 0
	}

	return time.Duration(h.ValueAtQuantile(q)) * time.Millisecond
}

func (m *metrics) MaxWaitTime(flow string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.histos[flow]
	if !ok {
		return 0
	}

	return time.Duration(h.Max()) * time.Millisecond
}

func (m *metrics) MeanWaitTime(flow string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.histos[flow]
	if !ok {
		return 0
	}

	return time.Duration(h.Mean()) * time.Millisecond
}

func (m *metrics) Flows() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	flows := make([]string, 0, len(m.histos))
	for flow := range m.histos {
		flows = append(flows, flow)
	}

	sort.Strings(flows)
	return flows
}

func (m *metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.histos {
		h.Reset()
	}
}
