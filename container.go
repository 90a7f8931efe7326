// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/events"
)

// flowContainer holds all registered flows. Lookups on the take path only acquire the read
// lock; structural changes take the write lock.
type flowContainer struct {
	n            notifier
	flows        map[string]*flow
	sync.RWMutex // Embedded mutex
}

func newFlowContainer(n notifier) *flowContainer {
	return &flowContainer{n: n, flows: make(map[string]*flow)}
}

// create installs a new flow and its reset ticker, and makes it addressable under name.
// maxIdle > 0 arranges for the flow to be reaped after that much inactivity.
func (fc *flowContainer) create(name string, limit int64, interval, maxIdle time.Duration, dynamic bool) error {
	if name == "" {
		return newError("flow name cannot be empty", ER_INVALID_ARGUMENT)
	}

	if limit != Unlimited && limit <= 0 {
		return newError(fmt.Sprintf("invalid limit %v for flow %v", limit, name), ER_INVALID_ARGUMENT)
	}

	if interval <= 0 {
		return newError(fmt.Sprintf("invalid interval %v for flow %v", interval, name), ER_INVALID_ARGUMENT)
	}

	fc.Lock()
	defer fc.Unlock()

	if _, exists := fc.flows[name]; exists {
		return newError("flow "+name+" already exists", ER_FLOW_EXISTS)
	}

	f := newFlow(name, limit, interval, dynamic, fc.n)
	fc.flows[name] = f
	f.reportActivity()
	fc.emit(events.NewFlowCreatedEvent(name, dynamic))

	if maxIdle > 0 {
		go fc.watch(name, f, maxIdle)
	}

	return nil
}

// createFromCfg installs a config-managed flow.
func (fc *flowContainer) createFromCfg(c *config.FlowConfig) error {
	interval := time.Duration(c.IntervalMillis) * time.Millisecond
	maxIdle := time.Duration(c.MaxIdleMillis) * time.Millisecond

	if err := fc.create(c.Name, c.Limit, interval, maxIdle, false); err != nil {
		return err
	}

	if f := fc.find(c.Name); f != nil {
		f.cfg = c
	}

	return nil
}

// watch watches a flow for activity, removing it if no activity has been detected after the
// given duration.
func (fc *flowContainer) watch(name string, f *flow, freq time.Duration) {
	t := time.NewTicker(freq)

	// Wait for a tick
	for range t.C {
		// Check for activity since last run
		if !f.activityDetected() || fc.find(name) != f {
			break
		}
	}

	t.Stop()
	fc.removeFlow(name, f)
}

func (fc *flowContainer) find(name string) *flow {
	fc.RLock()
	defer fc.RUnlock()

	return fc.flows[name]
}

func (fc *flowContainer) exists(name string) bool {
	return fc.find(name) != nil
}

// remove drops a flow by name, releasing its ticker and unblocking waiters.
func (fc *flowContainer) remove(name string) error {
	if !fc.removeFlow(name, nil) {
		return newError("no such flow "+name, ER_NO_SUCH_FLOW)
	}

	return nil
}

// removeFlow removes name only if it still maps to expect (or unconditionally when expect is
// nil). The identity check stops a stale watcher from reaping a newer flow reusing the name.
func (fc *flowContainer) removeFlow(name string, expect *flow) bool {
	fc.Lock()
	defer fc.Unlock()

	cur := fc.flows[name]
	if cur == nil || (expect != nil && cur != expect) {
		return false
	}

	delete(fc.flows, name)
	fc.emit(events.NewFlowRemovedEvent(name, cur.dynamic))
	cur.destroy()

	return true
}

// stop destroys all flows, releasing their tickers.
func (fc *flowContainer) stop() {
	fc.Lock()
	defer fc.Unlock()

	for name, f := range fc.flows {
		delete(fc.flows, name)
		f.destroy()
	}
}

func (fc *flowContainer) names() []string {
	fc.RLock()
	defer fc.RUnlock()

	names := make([]string, 0, len(fc.flows))
	for name := range fc.flows {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

func (fc *flowContainer) emit(e events.Event) {
	if fc.n != nil {
		fc.n.Emit(e)
	}
}

func (fc *flowContainer) String() string {
	var buffer bytes.Buffer

	for _, name := range fc.names() {
		f := fc.find(name)
		if f == nil {
			continue
		}

		buffer.WriteString(fmt.Sprintf(" * %v: limit=%v interval=%v\n", name, f.getLimit(), f.interval))
	}

	return buffer.String()
}
