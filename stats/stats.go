// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package stats aggregates per-flow admission statistics out of engine events.
package stats

import (
	"fmt"

	"github.com/square/flowlimit/events"
)

// Listener is an interface for consuming and retrieving per-flow admitted and throttled token
// counts.
type Listener interface {
	TopAdmitted() []*FlowScore
	TopThrottled() []*FlowScore
	Get(flow string) *FlowScores
	HandleEvent(events.Event)
}

// FlowScores stores a specific flow's admitted and throttled token totals.
type FlowScores struct {
	Admitted  int64 `json:"admitted"`
	Throttled int64 `json:"throttled"`
}

// FlowScore stores a single score for a specific flow. Used for top-lists.
type FlowScore struct {
	Flow  string `json:"flow"`
	Score int64  `json:"value"`
}

var emptyArr []*FlowScore
var emptyFlowScores *FlowScores

func init() {
	emptyArr = make([]*FlowScore, 0)
	emptyFlowScores = &FlowScores{0, 0}
}

func (f *FlowScore) String() string {
	return fmt.Sprintf("{%s, %d}", f.Flow, f.Score)
}

// FlowScoreArray implements a sortable FlowScore array
type FlowScoreArray []*FlowScore

func (f FlowScoreArray) Len() int {
	return len(f)
}

func (f FlowScoreArray) Less(i, j int) bool {
	return f[i].Score > f[j].Score
}

func (f FlowScoreArray) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
}
