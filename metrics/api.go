// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package metrics records wait-time distributions per flow, fed by engine events.
package metrics

import (
	"time"

	"github.com/square/flowlimit/events"
)

// Metrics exposes per-flow wait-time distributions.
type Metrics interface {
	// HandleEvent consumes engine events; only token-admission events carry a wait time.
	HandleEvent(e events.Event)

	// WaitTimeAtQuantile returns the wait time at quantile q (e.g. 99.0) for a flow, or 0 if
	// the flow has no recorded samples.
	WaitTimeAtQuantile(flow string, q float64) time.Duration

	// MaxWaitTime returns the largest wait time recorded for a flow.
	MaxWaitTime(flow string) time.Duration

	// MeanWaitTime returns the mean wait time recorded for a flow.
	MeanWaitTime(flow string) time.Duration

	// Flows returns the names of all flows that have had a sample recorded. Reset empties
	// their histograms but does not remove the names.
	Flows() []string

	// Reset discards all recorded samples.
	Reset()
}
