// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package mysqlpersister persists flowlimit configurations in a MySQL table, polling it for
// versions written by other nodes.
package mysqlpersister

import (
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/logging"
)

var ErrDuplicateConfig = errors.New("config with provided version number already exists")

const (
	mysqlErrDuplicateEntry = 1062
)

type MysqlPersister struct {
	latestVersion int
	db            *sql.DB
	m             *sync.RWMutex

	notifier        *config.Notifier
	shutdown        chan struct{}
	fetcherShutdown chan struct{}

	configs map[int]*config.ServiceConfig
}

type configRow struct {
	Version int    `db:"Version"`
	Config  string `db:"Config"`
}

type Connector interface {
	Connect() (*sql.DB, error)
}

func New(c Connector, pollingInterval time.Duration) (*MysqlPersister, error) {
	logging.Debugf("Connecting to MySQL")
	db, err := c.Connect()
	if err != nil {
		return nil, err
	}
	logging.Debugf("Connecting to MySQL: OK")

	q, args, err := sq.Select("1").From("flowlimit").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(q, args...)
	if err != nil {
		return nil, errors.New("table flowlimit does not exist")
	}

	mp := &MysqlPersister{
		db:              db,
		configs:         make(map[int]*config.ServiceConfig),
		m:               &sync.RWMutex{},
		notifier:        config.NewNotifier(),
		shutdown:        make(chan struct{}),
		fetcherShutdown: make(chan struct{}),
		latestVersion:   -1,
	}

	logging.Infof("Pulling configs from MySQL")
	if _, err := mp.pullConfigs(); err != nil {
		return nil, err
	}

	mp.m.RLock()
	v := mp.latestVersion
	mp.m.RUnlock()
	logging.Infof("Pulling configs from MySQL: OK; Latest Version: %v", v)

	mp.notifyWatcher()

	go mp.configFetcher(pollingInterval)

	return mp, nil
}

func (mp *MysqlPersister) configFetcher(pollingInterval time.Duration) {
	defer func() {
		close(mp.fetcherShutdown)
	}()

	for {
		select {
		case <-time.After(pollingInterval):
			if newConf, err := mp.pullConfigs(); err != nil {
				logging.Warnf("Received an error trying to fetch config updates: %s", err)
			} else if newConf {
				logging.Debugf("New config(s) found in MySQL")
				mp.notifyWatcher()
			}
		case <-mp.shutdown:
			logging.Debugf("Received shutdown signal, shutting down mysql watcher")
			return
		}
	}
}

// pullConfigs checks the database for new configs and returns true if there is a new config
func (mp *MysqlPersister) pullConfigs() (bool, error) {
	mp.m.RLock()
	v := mp.latestVersion
	mp.m.RUnlock()

	q, args, err := sq.
		Select("Version", "Config").
		From("flowlimit").
		Where("Version > ?", v).
		OrderBy("Version ASC").ToSql()
	if err != nil {
		return false, err
	}

	rows, err := mp.db.Query(q, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	rowCount := 0
	maxVersion := -1
	for rows.Next() {
		rowCount++

		var r configRow
		err := rows.Scan(&r.Version, &r.Config)
		if err != nil {
			return false, err
		}

		c, err := config.Unmarshal([]byte(r.Config))
		if err != nil {
			logging.Warnf("Could not unmarshal config version %v, error: %s", r.Version, err)
			continue
		}

		mp.m.Lock()
		mp.configs[r.Version] = c
		mp.m.Unlock()

		maxVersion = r.Version
	}

	if rowCount == 0 {
		return false, nil
	}

	logging.Infof("Upgrading from version %v to %v", v, maxVersion)

	mp.m.Lock()
	mp.latestVersion = maxVersion
	mp.m.Unlock()

	return true, nil
}

func (mp *MysqlPersister) notifyWatcher() {
	mp.notifier.Notify()
}

// PersistAndNotify persists a configuration passed in.
func (mp *MysqlPersister) PersistAndNotify(_ string, c *config.ServiceConfig) error {
	logging.Infof("Persisting version %v", c.Version)
	b, err := config.Marshal(c)
	if err != nil {
		return err
	}

	q, args, err := sq.Insert("flowlimit").Columns("Version", "Config").Values(c.Version, string(b)).ToSql()
	if err != nil {
		return err
	}

	_, err = mp.db.Exec(q, args...)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == mysqlErrDuplicateEntry {
			return ErrDuplicateConfig
		}

		return err
	}

	logging.Infof("Persisting version %v: OK", c.Version)
	return nil
}

// ConfigChangedWatcher returns a channel that is notified whenever a new config is available.
func (mp *MysqlPersister) ConfigChangedWatcher() <-chan struct{} {
	return mp.notifier.Watcher
}

// ReadPersistedConfig provides a config previously persisted.
func (mp *MysqlPersister) ReadPersistedConfig() (*config.ServiceConfig, error) {
	mp.m.RLock()
	defer mp.m.RUnlock()

	c := mp.configs[mp.latestVersion]
	if c == nil {
		return nil, errors.New("persister has a nil config")
	}

	return config.CloneConfig(c), nil
}

// ReadHistoricalConfigs returns an array of previously persisted configs
func (mp *MysqlPersister) ReadHistoricalConfigs() ([]*config.ServiceConfig, error) {
	var configs []*config.ServiceConfig

	mp.m.RLock()
	defer mp.m.RUnlock()

	var versions []int
	for k := range mp.configs {
		versions = append(versions, k)
	}

	sort.Ints(versions)

	for _, v := range versions {
		configs = append(configs, config.CloneConfig(mp.configs[v]))
	}

	return configs, nil
}

func (mp *MysqlPersister) Close() {
	logging.Debugf("Shutting down MySQL persister")
	close(mp.shutdown)
	<-mp.fetcherShutdown

	close(mp.notifier.Watcher)
	err := mp.db.Close()
	if err != nil {
		logging.Warnf("Could not terminate mysql connection: %v", err)
	} else {
		logging.Debugf("Shutting down MySQL persister: OK")
	}
}
