// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package flowlimit contains the flow rate limiting engine, as well as interfaces for extension
// authors, e.g., when providing different RPC endpoints to the service.
package flowlimit

import (
	"errors"
)

// ErrorReason provides details on why calls on the flow service may fail.
type ErrorReason int

const (
	// No flow registered under the requested name
	ER_NO_SUCH_FLOW ErrorReason = iota

	// A flow with the requested name already exists
	ER_FLOW_EXISTS

	// Negative token counts, non-positive limits or intervals
	ER_INVALID_ARGUMENT

	// The caller's context was cancelled while parked on the waiter gate
	ER_CANCELLED
)

type FlowLimitError struct {
	error
	Reason ErrorReason
}

func (e FlowLimitError) Error() string {
	return e.error.Error()
}

func newError(msg string, reason ErrorReason) FlowLimitError {
	return FlowLimitError{error: errors.New(msg), Reason: reason}
}

func wrapError(err error, reason ErrorReason) FlowLimitError {
	return FlowLimitError{error: err, Reason: reason}
}
