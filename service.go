// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"context"
	"time"
)

// FlowService is the interface used by RPC subsystems when fielding remote requests against
// flows.
type FlowService interface {
	// Create registers a new flow with the given token budget per interval and installs its
	// reset ticker. Use Unlimited to bypass accounting altogether.
	Create(name string, limit int64, interval time.Duration) error

	// SetLimit atomically replaces a flow's limit, resetting bucket headroom to five times
	// the new limit. Admitted counts and the interval version are untouched.
	SetLimit(name string, limit int64) error

	// GetLimit returns a flow's current limit.
	GetLimit(name string) (int64, error)

	// PrevAllowed returns the total tokens admitted during the last completed interval.
	PrevAllowed(name string) (int64, error)

	// Take acquires numTokens from the named flow, blocking until the full request has been
	// admitted, the context is cancelled, or the flow is removed.
	Take(ctx context.Context, name string, numTokens int64) error

	// TakeAsync spawns a helper that performs Take and delivers msg on the returned handle
	// once admitted. The helper is linked to ctx: cancelling it terminates the helper.
	TakeAsync(ctx context.Context, name string, numTokens int64, msg interface{}) *TakeHandle

	// Join checks that the named flow exists and otherwise does nothing: no membership is
	// recorded. It reserves the hook where per-member fair-share accounting would attach.
	Join(name string) error
}
