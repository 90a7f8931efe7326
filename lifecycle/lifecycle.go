// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package lifecycle

// The status type
type Status int

const (
	Stopped Status = iota
	Started
	// Draining means no new requests are accepted, but in-flight requests
	// are allowed to complete.
	Draining
)

func (s Status) String() string {
	switch s {
	case Started:
		return "Started"
	case Stopped:
		return "Stopped"
	case Draining:
		return "Draining"
	default:
		return "Unknown"
	}
}
