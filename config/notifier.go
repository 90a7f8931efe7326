// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package config

// Notifier wraps a coalescing notification channel shared by all persister implementations.
type Notifier struct {
	Watcher chan struct{}
}

func (n *Notifier) Notify() {
	select {
	case n.Watcher <- struct{}{}:
		// Done.
	default:
		// Already a message on the channel.
	}
}

func NewNotifier() *Notifier {
	return &Notifier{make(chan struct{}, 1)}
}
