// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"context"
)

// TakeHandle is a handle to a helper goroutine performing an asynchronous take. The helper
// delivers the originator's message on Messages() once the full request has been admitted, and
// closes Done() when it exits, successfully or not.
type TakeHandle struct {
	c    chan interface{}
	done chan struct{}
	err  error
}

// Messages returns the channel on which the originator's message is delivered on admission.
func (h *TakeHandle) Messages() <-chan interface{} {
	return h.c
}

// Done is closed when the helper goroutine exits.
func (h *TakeHandle) Done() <-chan struct{} {
	return h.done
}

// Err reports why the helper exited without delivering. It returns nil while the helper is
// still running.
func (h *TakeHandle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// TakeAsync implements FlowService. The helper is linked to the originator through ctx:
// cancelling the context terminates the helper, whose exit is observable via Done().
func (s *server) TakeAsync(ctx context.Context, name string, numTokens int64, msg interface{}) *TakeHandle {
	h := &TakeHandle{
		c:    make(chan interface{}, 1),
		done: make(chan struct{})}

	go func() {
		defer close(h.done)

		if err := s.Take(ctx, name, numTokens); err != nil {
			h.err = err
			return
		}

		h.c <- msg
	}()

	return h
}
