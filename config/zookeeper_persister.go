// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package config

import (
	"errors"
	"sync"
	"time"

	"github.com/samuel/go-zookeeper/zk"

	"github.com/square/flowlimit/logging"
)

const (
	sessionTimeout = 3 * time.Second
	createRetries  = 3
)

// ZkConfigPersister stores the marshalled service config in a single znode, and watches it for
// changes made by other flowlimit nodes.
type ZkConfigPersister struct {
	conn    *zk.Conn
	path    string
	config  []byte
	mu      sync.RWMutex
	watcher chan struct{}
	stopper chan struct{}
	wg      sync.WaitGroup
}

func NewZkConfigPersister(path string, servers []string) (*ZkConfigPersister, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout)

	if err != nil {
		return nil, err
	}

	conf, err := createAndGetConfig(conn, path)

	if err != nil {
		conn.Close()
		return nil, err
	}

	persister := &ZkConfigPersister{
		conn:    conn,
		path:    path,
		watcher: make(chan struct{}, 1),
		stopper: make(chan struct{}, 1)}

	persister.setAndNotify(conf)

	persister.wg.Add(1)
	go persister.zkEventListener()

	return persister, nil
}

// If the path does not exist, it tries to create it. However, it tries multiple times in case
// there's a race with another flowlimit node coming up.
func createAndGetConfig(conn *zk.Conn, path string) ([]byte, error) {
	var err error

	for i := 0; i < createRetries; i++ {
		exists, _, err := conn.Exists(path)

		if err != nil {
			continue
		}

		if !exists {
			_, err = conn.Create(path, []byte{}, 0, zk.WorldACL(zk.PermAll))

			if err != nil {
				continue
			}
		}

		conf, _, err := conn.Get(path)

		if err == nil {
			return conf, nil
		}

		logging.Printf("Could not get zk config, sleeping for 100ms")
		time.Sleep(100 * time.Millisecond)
	}

	if err == nil {
		err = errors.New("could not create and get path " + path)
	}

	return nil, err
}

// PersistAndNotify persists a configuration passed in. There is no local notification; that
// happens when zookeeper alerts the watcher.
func (z *ZkConfigPersister) PersistAndNotify(oldHash string, cfg *ServiceConfig) error {
	b, e := Marshal(cfg)
	if e != nil {
		return e
	}

	_, err := z.conn.Set(z.path, b, -1)

	return err
}

// ReadPersistedConfig provides a config previously persisted.
func (z *ZkConfigPersister) ReadPersistedConfig() (*ServiceConfig, error) {
	z.mu.RLock()
	b := z.config
	z.mu.RUnlock()

	if len(b) == 0 {
		return NewDefaultServiceConfig(), nil
	}

	return Unmarshal(b)
}

// ReadHistoricalConfigs returns the current config only; zookeeper stores a single version.
func (z *ZkConfigPersister) ReadHistoricalConfigs() ([]*ServiceConfig, error) {
	cfg, err := z.ReadPersistedConfig()
	if err != nil {
		return nil, err
	}

	return []*ServiceConfig{cfg}, nil
}

func (z *ZkConfigPersister) zkEventListener() {
	for {
		select {
		case <-z.stopper:
			z.wg.Done()
			return
		default:
		}

		config, _, ch, err := z.conn.GetW(z.path)

		if err != nil {
			logging.Printf("Received error from zookeeper when fetching %s: %+v", z.path, err)
			continue
		}

		z.setAndNotify(config)

		event := <-ch

		if event.Err != nil {
			logging.Printf("Received error from zookeeper: %+v", event)
		}
	}
}

func (z *ZkConfigPersister) setAndNotify(config []byte) {
	z.mu.Lock()
	z.config = config
	z.mu.Unlock()

	// ... and notify
	select {
	case z.watcher <- struct{}{}:
		// Notified
	default:
		// Doesn't matter; another notification is pending.
	}
}

// ConfigChangedWatcher returns a channel that is notified whenever configuration changes are
// detected. Changes are coalesced so that a single notification may be emitted for multiple
// changes.
func (z *ZkConfigPersister) ConfigChangedWatcher() <-chan struct{} {
	return z.watcher
}

func (z *ZkConfigPersister) Close() {
	z.stopper <- struct{}{}
	z.conn.Close()
	z.wg.Wait()
	close(z.watcher)
	close(z.stopper)
}
