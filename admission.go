// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/square/flowlimit/events"
)

// take acquires numTokens from the flow's bucket, blocking until the full request has been
// admitted. Requests larger than a single interval's limit are sliced: each attempt deducts at
// most limit tokens, and the remainder carries over to further attempts, spanning interval
// boundaries as needed.
//
// Each probe deducts its slice and reads the pre-deduction level in one atomic step. An empty
// bucket refunds the slice and parks the caller on the waiter gate. Otherwise a RED draw
// decides: a uniform R in [1, previous] admits iff R <= post-deduction level, so the rejection
// probability is slice/previous. Small requests against a full bucket nearly always admit;
// large requests against a near-empty bucket nearly always reject, which keeps small control
// messages flowing under contention.
func (f *flow) take(ctx context.Context, numTokens int64) error {
	if numTokens < 0 {
		return newError(fmt.Sprintf("cannot take %v tokens from flow %v", numTokens, f.name),
			ER_INVALID_ARGUMENT)
	}

	f.reportActivity()

	if atomic.LoadInt64(&f.limit) == Unlimited {
		return nil
	}

	// A zero-token take admits unconditionally and must not probe the bucket: a probe of
	// zero still executes the shared atomic op, and could observe another caller's transient
	// deduction and park over tokens it never asked for.
	if numTokens == 0 {
		return nil
	}

	start := time.Now()
	remaining := numTokens
	version := atomic.LoadInt64(&f.version)

	for {
		limit := atomic.LoadInt64(&f.limit)
		if limit == Unlimited {
			return nil
		}

		slice := remaining
		if slice > limit {
			slice = limit
		}

		// Probe: AddInt64 returns the post-deduction level, so previous = post + slice is
		// exact against the bucket state this caller mutated.
		post := atomic.AddInt64(&f.tokens, -slice)
		previous := post + slice

		if post <= 0 {
			// Bucket empty. Refund and wait out the interval.
			atomic.AddInt64(&f.tokens, slice)
			f.emit(events.NewBucketEmptyEvent(f.name, f.dynamic, slice))

			var err error
			if version, err = f.wait(ctx, version); err != nil {
				f.emit(events.NewTakeCancelledEvent(f.name, f.dynamic, remaining))
				return err
			}
			continue
		}

		if f.redAdmit(previous, post) {
			atomic.AddInt64(&f.allowed, slice)
			remaining -= slice

			if remaining <= 0 {
				f.emit(events.NewTokensAdmittedEvent(f.name, f.dynamic, numTokens, time.Since(start)))
				return nil
			}

			// More to take; probe again against what's left of the bucket.
			continue
		}

		// RED rejection: refund and wait out the interval.
		atomic.AddInt64(&f.tokens, slice)
		f.emit(events.NewRedRejectionEvent(f.name, f.dynamic, slice))

		var err error
		if version, err = f.wait(ctx, version); err != nil {
			f.emit(events.NewTakeCancelledEvent(f.name, f.dynamic, remaining))
			return err
		}
	}
}

// redAdmit draws uniformly from [1, previous]. previous >= 1 is guaranteed by the caller, since
// the post-deduction level was positive.
func (f *flow) redAdmit(previous, post int64) bool {
	f.rngMu.Lock()
	r := f.rng.Int63n(previous) + 1
	f.rngMu.Unlock()

	return r <= post
}
