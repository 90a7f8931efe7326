// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package helpers

import (
	"testing"
)

// ExpectingPanic indicates that a function passed in should panic. If it does, no errors are
// thrown. If not, the test fails.
func ExpectingPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("Did not panic()")
		}
	}()

	f()
}

// PanicError panics if an error is passed in, for test setup code that must not fail.
func PanicError(err error) {
	if err != nil {
		panic(err)
	}
}
