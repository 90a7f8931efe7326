// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package stats

import (
	"sort"
	"sync"

	"github.com/square/flowlimit/events"
)

type memoryListener struct {
	mu        sync.RWMutex
	admitted  map[string]*FlowScore
	throttled map[string]*FlowScore
}

func NewMemoryStatsListener() Listener {
	return &memoryListener{
		admitted:  make(map[string]*FlowScore),
		throttled: make(map[string]*FlowScore)}
}

func (l *memoryListener) flowScoreTop10(scoreMap map[string]*FlowScore) []*FlowScore {
	arr := make(FlowScoreArray, 0, len(scoreMap))

	for _, value := range scoreMap {
		c := *value
		arr = append(arr, &c)
	}

	sort.Sort(arr)
	length := len(arr)

	if length > 10 {
		length = 10
	}

	return arr[0:length]
}

// TopAdmitted returns a sorted list of the 10 flows with the highest admitted token totals.
func (l *memoryListener) TopAdmitted() []*FlowScore {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.flowScoreTop10(l.admitted)
}

// TopThrottled returns a sorted list of the 10 flows with the highest throttled token totals.
func (l *memoryListener) TopThrottled() []*FlowScore {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.flowScoreTop10(l.throttled)
}

// Get returns the admitted and throttled totals for a flow.
func (l *memoryListener) Get(flow string) *FlowScores {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, admittedOk := l.admitted[flow]
	th, throttledOk := l.throttled[flow]

	if !admittedOk && !throttledOk {
		return emptyFlowScores
	}

	scores := &FlowScores{0, 0}

	if admittedOk {
		scores.Admitted = a.Score
	}

	if throttledOk {
		scores.Throttled = th.Score
	}

	return scores
}

// HandleEvent consumes flow events (see events.Event)
func (l *memoryListener) HandleEvent(event events.Event) {
	switch event.EventType() {
	case events.EVENT_TOKENS_ADMITTED:
		l.add(l.admitted, event.FlowName(), event.NumTokens())
	case events.EVENT_RED_REJECTION, events.EVENT_BUCKET_EMPTY:
		l.add(l.throttled, event.FlowName(), event.NumTokens())
	case events.EVENT_FLOW_REMOVED:
		l.mu.Lock()
		delete(l.admitted, event.FlowName())
		delete(l.throttled, event.FlowName())
		l.mu.Unlock()
	}
}

func (l *memoryListener) add(scoreMap map[string]*FlowScore, flow string, tokens int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	score, ok := scoreMap[flow]
	if !ok {
		score = &FlowScore{Flow: flow}
		scoreMap[flow] = score
	}

	score.Score += tokens
}
