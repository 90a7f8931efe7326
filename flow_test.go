// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// A long interval keeps the ticker out of the way; tests drive interval boundaries by calling
// reset() directly.
const quietInterval = time.Hour

// zeroSource makes RED draws deterministic: Int63n always yields 0, so r == 1 and every probe
// with a positive post-deduction level admits. The empty-bucket branch is unaffected, which
// keeps blocking behavior exact for accounting tests.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func newTestFlow(limit int64) *flow {
	f := newFlow("test_flow", limit, quietInterval, false, nil)
	f.rng = rand.New(zeroSource{})
	return f
}

func TestTakeWithinLimit(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	if err := f.take(context.Background(), 32); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 32 {
		t.Fatalf("Expected allowed == 32, was %v", allowed)
	}

	if tokens := atomic.LoadInt64(&f.tokens); tokens != 5*512-32 {
		t.Fatalf("Expected tokens == %v, was %v", 5*512-32, tokens)
	}
}

func TestTakeFullInterval(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	if err := f.take(context.Background(), 512); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 512 {
		t.Fatalf("Expected allowed == 512, was %v", allowed)
	}

	if tokens := atomic.LoadInt64(&f.tokens); tokens != 2048 {
		t.Fatalf("Expected tokens == 2048, was %v", tokens)
	}
}

func TestTakeLargerThanLimit(t *testing.T) {
	// 1024 needs two slices of 512, both of which fit in the initial burst without spanning
	// an interval.
	f := newTestFlow(512)
	defer f.destroy()

	if err := f.take(context.Background(), 1024); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 1024 {
		t.Fatalf("Expected allowed == 1024, was %v", allowed)
	}
}

func TestTakeZero(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	if err := f.take(context.Background(), 0); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 0 {
		t.Fatalf("Take of 0 tokens should not change allowed; was %v", allowed)
	}

	if tokens := atomic.LoadInt64(&f.tokens); tokens != 5*512 {
		t.Fatalf("Take of 0 tokens should not change tokens; was %v", tokens)
	}
}

func TestTakeZeroWithBucketTransientlyNegative(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	// Simulate another caller sitting between its probe and its rejection refund: the
	// bucket is transiently below zero. A zero-token take must still admit immediately.
	atomic.StoreInt64(&f.tokens, -256)

	done := make(chan error, 1)
	go func() {
		done <- f.take(context.Background(), 0)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Take failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Take of 0 tokens should never block")
	}

	if tokens := atomic.LoadInt64(&f.tokens); tokens != -256 {
		t.Fatalf("Take of 0 tokens should not touch the bucket; was %v", tokens)
	}
}

func TestTakeNegative(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	err := f.take(context.Background(), -1)
	if err == nil {
		t.Fatal("Expected error taking negative tokens")
	}

	if flErr, ok := err.(FlowLimitError); !ok || flErr.Reason != ER_INVALID_ARGUMENT {
		t.Fatalf("Expected ER_INVALID_ARGUMENT, got %v", err)
	}
}

func TestTakeUnlimited(t *testing.T) {
	f := newTestFlow(Unlimited)
	defer f.destroy()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if err := f.take(context.Background(), 1<<40); err != nil {
				t.Errorf("Take failed: %v", err)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Unlimited takes should return immediately")
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 0 {
		t.Fatalf("Unlimited flows should not account; allowed was %v", allowed)
	}

	if prev := f.getPrevAllowed(); prev != 0 {
		t.Fatalf("Unlimited flows should not account; prevAllowed was %v", prev)
	}
}

func TestResetAccounting(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	if err := f.take(context.Background(), 32); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	f.reset()

	if prev := f.getPrevAllowed(); prev != 32 {
		t.Fatalf("Expected prevAllowed == 32 after reset, was %v", prev)
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 0 {
		t.Fatalf("Expected allowed == 0 after reset, was %v", allowed)
	}
}

func TestResetAdvancesVersion(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	v := f.currentVersion()
	f.reset()

	if next := f.currentVersion(); next != v+1 {
		t.Fatalf("Expected version %v, was %v", v+1, next)
	}
}

func TestVersionWraps(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	atomic.StoreInt64(&f.version, versionModulus-1)
	f.reset()

	if v := f.currentVersion(); v != 0 {
		t.Fatalf("Expected version to wrap to 0, was %v", v)
	}
}

func TestRefillCapsAtBurst(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	// Drain most of the bucket, then reset repeatedly. Tokens must converge to burst and
	// never exceed it.
	if err := f.take(context.Background(), 2048); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		f.reset()
		if tokens := atomic.LoadInt64(&f.tokens); tokens > 5*512 {
			t.Fatalf("Tokens exceeded burst: %v", tokens)
		}
	}

	if tokens := atomic.LoadInt64(&f.tokens); tokens != 5*512 {
		t.Fatalf("Expected tokens to converge to burst, was %v", tokens)
	}
}

func TestSetLimit(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	f.setLimit(1000)

	if l := f.getLimit(); l != 1000 {
		t.Fatalf("Expected limit 1000, was %v", l)
	}

	if b := atomic.LoadInt64(&f.burst); b != 5000 {
		t.Fatalf("Expected burst 5000, was %v", b)
	}

	if fair := atomic.LoadInt64(&f.fair); fair != 200 {
		t.Fatalf("Expected fair 200, was %v", fair)
	}

	if tokens := atomic.LoadInt64(&f.tokens); tokens != 5000 {
		t.Fatalf("Expected tokens reset to 5000, was %v", tokens)
	}
}

func TestSetLimitToUnlimited(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	f.setLimit(Unlimited)

	if err := f.take(context.Background(), 1<<40); err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if allowed := atomic.LoadInt64(&f.allowed); allowed != 0 {
		t.Fatalf("Unlimited flows should not account; allowed was %v", allowed)
	}
}

func TestWaiterReleasedByReset(t *testing.T) {
	// limit 1 gives an initial bucket of 5; a take of 10 admits exactly 4 tokens before the
	// empty-bucket branch parks it. Each reset then frees exactly one more token.
	f := newTestFlow(1)
	defer f.destroy()

	done := make(chan error, 1)
	go func() {
		done <- f.take(context.Background(), 10)
	}()

	select {
	case err := <-done:
		t.Fatalf("Take should have blocked, returned %v", err)
	case <-time.After(50 * time.Millisecond):
		// Parked, as expected.
	}

	// Drive enough interval boundaries for the remaining 6 tokens.
	for i := 0; i < 20; i++ {
		f.reset()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Take failed: %v", err)
			}
			return
		case <-time.After(10 * time.Millisecond):
		}
	}

	t.Fatal("Take did not complete after 20 resets")
}

func TestTakeSpansIntervals(t *testing.T) {
	// 3072 > burst of 2560, so this must span at least one interval boundary.
	f := newFlow("spanning", 512, 10*time.Millisecond, false, nil)
	defer f.destroy()

	done := make(chan error, 1)
	go func() {
		done <- f.take(context.Background(), 3072)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Take failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Take of 3072 did not complete")
	}
}

func TestCancelledWhileWaiting(t *testing.T) {
	f := newTestFlow(1)
	defer f.destroy()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.take(ctx, 10)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if flErr, ok := err.(FlowLimitError); !ok || flErr.Reason != ER_CANCELLED {
			t.Fatalf("Expected ER_CANCELLED, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Cancelled take did not return")
	}

	// The parked probe must have been refunded before waiting: 5 initial - 4 admitted.
	if tokens := atomic.LoadInt64(&f.tokens); tokens != 1 {
		t.Fatalf("Expected 1 token left after refund, was %v", tokens)
	}
}

func TestDestroyUnblocksWaiters(t *testing.T) {
	f := newTestFlow(1)

	done := make(chan error, 1)
	go func() {
		done <- f.take(context.Background(), 10)
	}()

	time.Sleep(50 * time.Millisecond)
	f.destroy()

	select {
	case err := <-done:
		if flErr, ok := err.(FlowLimitError); !ok || flErr.Reason != ER_NO_SUCH_FLOW {
			t.Fatalf("Expected ER_NO_SUCH_FLOW, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Take did not return after flow destroy")
	}
}

func TestRedAdmissionBias(t *testing.T) {
	f := newFlow("red", 512, quietInterval, false, nil)
	defer f.destroy()

	f.rngMu.Lock()
	f.rng = rand.New(rand.NewSource(42))
	f.rngMu.Unlock()

	// A request leaving almost nothing in the bucket should almost always reject.
	rejects := 0
	for i := 0; i < 1000; i++ {
		if !f.redAdmit(100, 1) {
			rejects++
		}
	}

	if rejects < 950 {
		t.Fatalf("Expected a near-empty outcome to reject nearly always; rejected %v/1000", rejects)
	}

	// A request consuming almost nothing should almost always admit.
	admits := 0
	for i := 0; i < 1000; i++ {
		if f.redAdmit(100, 99) {
			admits++
		}
	}

	if admits < 950 {
		t.Fatalf("Expected a near-full outcome to admit nearly always; admitted %v/1000", admits)
	}
}

func TestConcurrentTakes(t *testing.T) {
	f := newFlow("concurrent", 100, 10*time.Millisecond, false, nil)
	defer f.destroy()

	var wg sync.WaitGroup
	var failures int64

	// 20 callers of 50 tokens each: 1000 total against a 500-token burst, forcing spill into
	// later intervals.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.take(context.Background(), 50); err != nil {
				atomic.AddInt64(&failures, 1)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Concurrent takes did not complete")
	}

	if n := atomic.LoadInt64(&failures); n != 0 {
		t.Fatalf("%v takes failed", n)
	}

	// No interval can have admitted more than burst.
	if prev := f.getPrevAllowed(); prev > 500 {
		t.Fatalf("prevAllowed %v exceeds burst", prev)
	}
}

func TestSequentialIntervalAccounting(t *testing.T) {
	f := newTestFlow(512)
	defer f.destroy()

	for _, n := range []int64{32, 64, 128} {
		if err := f.take(context.Background(), n); err != nil {
			t.Fatalf("Take failed: %v", err)
		}
	}

	f.reset()

	if prev := f.getPrevAllowed(); prev != 32+64+128 {
		t.Fatalf("Expected prevAllowed == %v, was %v", 32+64+128, prev)
	}
}

func BenchmarkTakeUncontended(b *testing.B) {
	f := newFlow("bench", int64(b.N)+1, quietInterval, false, nil)
	f.rng = rand.New(zeroSource{})
	defer f.destroy()

	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := f.take(ctx, 1); err != nil {
			b.Fatal(err)
		}
	}
}
