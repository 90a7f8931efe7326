// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// DiskConfigPersister is a ConfigPersister that saves configs to the local filesystem. Each
// persisted config is written to a hash-suffixed file, and a symlink at the configured location
// points at the current one.
type DiskConfigPersister struct {
	location string
	*Notifier
}

// NewDiskConfigPersister creates a new DiskConfigPersister
func NewDiskConfigPersister(location string) (*DiskConfigPersister, error) {
	fi, e := os.Stat(location)
	// This will catch nonexistent paths, as well as passing in a directory instead of a file.
	// Nonexistent files in an existing path, however, is allowed.
	if e != nil && !os.IsNotExist(e) {
		return nil, e
	}

	if e == nil && fi.IsDir() {
		return nil, fmt.Errorf("location %s is a directory", location)
	}

	if e != nil {
		if _, de := os.Stat(filepath.Dir(location)); de != nil {
			return nil, de
		}
	}

	d := &DiskConfigPersister{location, NewNotifier()}

	// Notify that we're available for reading
	d.Notify()

	return d, nil
}

func writeFile(path string, bytes []byte) error {
	f, e := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.ModePerm)

	if e != nil {
		return e
	}

	if _, e = f.Write(bytes); e != nil {
		_ = f.Close()
		return e
	}

	return f.Close()
}

// PersistAndNotify persists a configuration passed in.
func (d *DiskConfigPersister) PersistAndNotify(oldHash string, cfg *ServiceConfig) error {
	b, e := Marshal(cfg)
	if e != nil {
		return e
	}

	path := fmt.Sprintf("%s-%s", d.location, HashConfigBytes(b))
	if e = writeFile(path, b); e != nil {
		return e
	}

	if _, e := os.Stat(d.location); e == nil {
		if e = os.Remove(d.location); e != nil {
			return e
		}
	}

	if e = os.Symlink(path, d.location); e != nil {
		return e
	}

	// ... and notify
	d.Notify()

	return nil
}

// ReadPersistedConfig provides a config previously persisted.
func (d *DiskConfigPersister) ReadPersistedConfig() (*ServiceConfig, error) {
	b, e := ioutil.ReadFile(d.location)
	if e != nil {
		return nil, e
	}

	return Unmarshal(b)
}

// ReadHistoricalConfigs returns an array of previously persisted configs
func (d *DiskConfigPersister) ReadHistoricalConfigs() ([]*ServiceConfig, error) {
	files, err := filepath.Glob(fmt.Sprintf("%s-*", d.location))
	if err != nil {
		return nil, err
	}

	configs := make([]*ServiceConfig, 0, len(files))

	for _, file := range files {
		b, e := ioutil.ReadFile(file)
		if e != nil {
			return nil, e
		}

		cfg, e := Unmarshal(b)
		if e != nil {
			return nil, e
		}

		configs = append(configs, cfg)
	}

	return configs, nil
}

// ConfigChangedWatcher returns a channel that is notified whenever configuration changes are
// detected. Changes are coalesced so that a single notification may be emitted for multiple
// changes.
func (d *DiskConfigPersister) ConfigChangedWatcher() <-chan struct{} {
	return d.Watcher
}
