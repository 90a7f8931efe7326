// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package config

import (
	"errors"
	"sync"
)

type MemoryConfigPersister struct {
	config  string
	configs map[string]*ServiceConfig
	*Notifier
	*sync.RWMutex
}

func NewMemoryConfigPersister() *MemoryConfigPersister {
	p := &MemoryConfigPersister{
		configs:  make(map[string]*ServiceConfig),
		Notifier: NewNotifier(),
		RWMutex:  &sync.RWMutex{}}

	p.Notify()
	return p
}

// NewMemoryConfig creates a memory-backed persister pre-loaded with the config passed in.
func NewMemoryConfig(cfg *ServiceConfig) *MemoryConfigPersister {
	p := NewMemoryConfigPersister()
	if err := p.PersistAndNotify("", cfg); err != nil {
		// Memory persister never rejects a write.
		panic(err)
	}

	return p
}

// PersistAndNotify persists a configuration passed in.
func (m *MemoryConfigPersister) PersistAndNotify(oldHash string, cfg *ServiceConfig) error {
	m.Lock()
	defer m.Unlock()

	m.config = HashConfig(cfg)
	m.configs[m.config] = CloneConfig(cfg)

	// ... and notify
	m.Notify()

	return nil
}

// ReadPersistedConfig provides a config previously persisted.
func (m *MemoryConfigPersister) ReadPersistedConfig() (*ServiceConfig, error) {
	m.RLock()
	defer m.RUnlock()

	cfg, exists := m.configs[m.config]
	if !exists {
		return nil, errors.New("no config persisted yet")
	}

	return CloneConfig(cfg), nil
}

// ReadHistoricalConfigs returns an array of previously persisted configs
func (m *MemoryConfigPersister) ReadHistoricalConfigs() ([]*ServiceConfig, error) {
	m.RLock()
	defer m.RUnlock()

	return CloneConfigs(m.configs), nil
}

// ConfigChangedWatcher returns the notification channel.
func (m *MemoryConfigPersister) ConfigChangedWatcher() <-chan struct{} {
	return m.Watcher
}
