// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package stats

import (
	"fmt"
	"time"

	"gopkg.in/redis.v5"

	"github.com/square/flowlimit/events"
	"github.com/square/flowlimit/logging"
)

type redisListener struct {
	client *redis.Client
}

// NewRedisStatsListener creates a redis-backed stats listener with the passed in redis.Options.
// Scores are kept in sorted sets bucketed by hour, so multiple flowlimit nodes sharing a redis
// instance aggregate into the same view.
func NewRedisStatsListener(redisOpts *redis.Options) Listener {
	client := redis.NewClient(redisOpts)
	_, err := client.Ping().Result()

	if err != nil {
		logging.Fatalf("RedisStatsListener: cannot connect to Redis, %v", err)
	}

	return &redisListener{client}
}

func statsKey(metric string) string {
	return fmt.Sprintf("flowstats:%s:%d", metric, time.Now().Hour())
}

func (l *redisListener) redisTopList(key string) []*FlowScore {
	// The stop index is inclusive: 0..9 yields at most 10 entries.
	results, err := l.client.ZRevRangeWithScores(key, 0, 9).Result()

	if err != nil && err.Error() != "redis: nil" {
		logging.Printf("RedisStatsListener.TopList error (%s) %v", key, err)
		return emptyArr
	}

	arr := make([]*FlowScore, len(results))

	for i, item := range results {
		arr[i] = &FlowScore{item.Member.(string), int64(item.Score)}
	}

	return arr
}

// TopAdmitted returns a sorted list of the 10 flows with the highest admitted token totals
// within the current bucketed hour.
func (l *redisListener) TopAdmitted() []*FlowScore {
	return l.redisTopList(statsKey("admitted"))
}

// TopThrottled returns a sorted list of the 10 flows with the highest throttled token totals
// within the current bucketed hour.
func (l *redisListener) TopThrottled() []*FlowScore {
	return l.redisTopList(statsKey("throttled"))
}

// Get returns the admitted and throttled totals for a flow within the current bucketed hour.
func (l *redisListener) Get(flow string) *FlowScores {
	scores := &FlowScores{0, 0}

	value, err := l.client.ZScore(statsKey("admitted"), flow).Result()

	if err != nil && err.Error() != "redis: nil" {
		logging.Printf("RedisStatsListener.Get error (%s) %v", flow, err)
	} else {
		scores.Admitted = int64(value)
	}

	value, err = l.client.ZScore(statsKey("throttled"), flow).Result()

	if err != nil && err.Error() != "redis: nil" {
		logging.Printf("RedisStatsListener.Get error (%s) %v", flow, err)
	} else {
		scores.Throttled = int64(value)
	}

	return scores
}

// HandleEvent consumes flow events (see events.Event)
func (l *redisListener) HandleEvent(event events.Event) {
	switch event.EventType() {
	case events.EVENT_TOKENS_ADMITTED:
		l.incr(statsKey("admitted"), event.FlowName(), event.NumTokens())
	case events.EVENT_RED_REJECTION, events.EVENT_BUCKET_EMPTY:
		l.incr(statsKey("throttled"), event.FlowName(), event.NumTokens())
	}
}

func (l *redisListener) incr(key, flow string, tokens int64) {
	err := l.client.ZIncrBy(key, float64(tokens), flow).Err()

	if err != nil {
		logging.Printf("RedisStatsListener.HandleEvent error (%s, %s) %v", key, flow, err)
		return
	}

	// Hour buckets expire two hours after their last write.
	if err := l.client.Expire(key, 2*time.Hour).Err(); err != nil {
		logging.Printf("RedisStatsListener.HandleEvent error (%s, %s) %v", key, flow, err)
	}
}
