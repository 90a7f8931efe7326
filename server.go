// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/square/flowlimit/admin"
	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/events"
	"github.com/square/flowlimit/lifecycle"
	"github.com/square/flowlimit/logging"
	"github.com/square/flowlimit/stats"
)

// Implements the flowlimit.Server interface
type server struct {
	currentStatus     lifecycle.Status
	container         *flowContainer
	rpcEndpoints      []RpcEndpoint
	listener          events.Listener
	statsListener     stats.Listener
	eventQueueBufSize int
	maxJitterMillis   int
	producer          *events.EventProducer
	cfgs              *config.ServiceConfig
	persister         config.ConfigPersister
	sync.RWMutex      // Embedded mutex
}

func (s *server) String() string {
	return fmt.Sprintf("Flowlimit server running with status %v", s.currentStatus)
}

func (s *server) Start() (bool, error) {
	bufSize := s.eventQueueBufSize

	if bufSize < 1 {
		bufSize = 1
	}

	// Set up listeners
	s.producer = events.RegisterListener(func(e events.Event) {
		if s.listener != nil {
			s.listener(e)
		}

		if s.statsListener != nil {
			s.statsListener.HandleEvent(e)
		}
	}, bufSize)

	s.createContainer()
	<-s.persister.ConfigChangedWatcher()
	s.readUpdatedConfig(0)
	go s.configListener(s.persister.ConfigChangedWatcher())

	// Start the RPC servers
	for _, rpcServer := range s.rpcEndpoints {
		rpcServer.Init(s)
		rpcServer.Start()
	}

	s.currentStatus = lifecycle.Started
	return true, nil
}

func (s *server) Stop() (bool, error) {
	s.currentStatus = lifecycle.Stopped

	// Stop the RPC servers
	for _, rpcServer := range s.rpcEndpoints {
		rpcServer.Stop()
	}

	// Referencing s.container should be guarded
	s.RLock()
	defer s.RUnlock()
	s.container.stop()
	return true, nil
}

// Create implements FlowService. Flows created through the API (as opposed to configuration)
// are marked dynamic and are not managed by the config watcher.
func (s *server) Create(name string, limit int64, interval time.Duration) error {
	s.RLock()
	fc := s.container
	s.RUnlock()

	return fc.create(name, limit, interval, 0, true)
}

func (s *server) SetLimit(name string, limit int64) error {
	if limit != Unlimited && limit <= 0 {
		return newError(fmt.Sprintf("invalid limit %v for flow %v", limit, name), ER_INVALID_ARGUMENT)
	}

	f, err := s.findFlow(name)
	if err != nil {
		return err
	}

	f.setLimit(limit)
	return nil
}

func (s *server) GetLimit(name string) (int64, error) {
	f, err := s.findFlow(name)
	if err != nil {
		return 0, err
	}

	return f.getLimit(), nil
}

func (s *server) PrevAllowed(name string) (int64, error) {
	f, err := s.findFlow(name)
	if err != nil {
		return 0, err
	}

	return f.getPrevAllowed(), nil
}

func (s *server) Take(ctx context.Context, name string, numTokens int64) error {
	f, err := s.findFlow(name)
	if err != nil {
		return err
	}

	return f.take(ctx, numTokens)
}

func (s *server) Join(name string) error {
	_, err := s.findFlow(name)
	return err
}

func (s *server) findFlow(name string) (*flow, error) {
	s.RLock()
	f := s.container.find(name)
	s.RUnlock()

	if f == nil {
		s.Emit(events.NewFlowMissedEvent(name))
		return nil, newError("no such flow "+name, ER_NO_SUCH_FLOW)
	}

	return f, nil
}

func (s *server) ServeAdminConsole(mux *http.ServeMux, assetsDir string, development bool) {
	admin.ServeAdminConsole(s, mux, assetsDir, development)
}

func (s *server) SetLogger(logger logging.Logger) {
	if s.currentStatus == lifecycle.Started {
		panic("Cannot set logger after server has started!")
	}
	logging.SetLogger(logger)
}

func (s *server) SetStatsListener(listener stats.Listener) {
	if s.currentStatus == lifecycle.Started {
		panic("Cannot add listener after server has started!")
	}

	s.statsListener = listener
}

func (s *server) SetListener(listener events.Listener, eventQueueBufSize int) {
	if s.currentStatus == lifecycle.Started {
		panic("Cannot add listener after server has started!")
	}

	if eventQueueBufSize < 1 {
		panic("Event queue buffer size must be greater than 0")
	}

	s.listener = listener
	s.eventQueueBufSize = eventQueueBufSize
}

func (s *server) Emit(e events.Event) {
	if s.producer != nil {
		s.producer.Emit(e)
	}
}

func (s *server) configListener(ch <-chan struct{}) {
	for range ch {
		jitter := 0
		if s.maxJitterMillis != 0 {
			// Pick a random number between 0 and maxJitterMillis
			jitter = rand.Intn(s.maxJitterMillis)
		}
		s.readUpdatedConfig(time.Duration(jitter) * time.Millisecond)
	}
}

func (s *server) readUpdatedConfig(jitter time.Duration) {
	newConfig, err := s.persister.ReadPersistedConfig()

	if err != nil {
		logging.Println("error reading persisted config", err)
		return
	}

	if jitter != 0 {
		time.Sleep(jitter)
	}

	s.updateFlows(newConfig)
}

func (s *server) createContainer() {
	s.Lock()
	defer s.Unlock()

	if s.container != nil {
		logging.Fatalf("A flow container already exists; this shouldn't happen. Container=%v", s.container)
	}
	s.container = newFlowContainer(s)
}

// updateFlows diffs the current set of config-managed flows against a new config: new entries
// are created, changed limits applied in place, changed intervals recreated, and deleted
// entries removed. API-created (dynamic) flows are left alone.
func (s *server) updateFlows(newConfig *config.ServiceConfig) {
	s.Lock()
	defer s.Unlock()

	config.ApplyDefaults(newConfig)
	s.cfgs = newConfig

	for _, name := range s.container.names() {
		f := s.container.find(name)
		if f == nil || f.dynamic {
			continue
		}

		newCfg, exists := newConfig.Flows[name]
		if !exists {
			_ = s.container.remove(name)
			continue
		}

		if !config.DifferentFlowConfigs(f.cfg, newCfg) {
			// Just correct the config pointer on the old flow
			f.cfg = newCfg
			continue
		}

		if f.cfg != nil && f.cfg.IntervalMillis == newCfg.IntervalMillis && f.cfg.MaxIdleMillis == newCfg.MaxIdleMillis {
			// Only the limit changed; apply in place without disturbing waiters.
			f.setLimit(newCfg.Limit)
			f.cfg = newCfg
			continue
		}

		// Interval or reaping changed; the ticker has to be rebuilt.
		_ = s.container.remove(name)
		if err := s.container.createFromCfg(newCfg); err != nil {
			logging.Printf("Could not recreate flow %v: %v", name, err)
		}
	}

	// Now look for any new flows in the new config and add them
	for name, cfg := range newConfig.Flows {
		if !s.container.exists(name) {
			if err := s.container.createFromCfg(cfg); err != nil {
				logging.Printf("Could not create flow %v: %v", name, err)
			}
		}
	}
}

func (s *server) updateConfig(user string, updater func(*config.ServiceConfig) error) error {
	s.Lock()
	clonedCfg := config.CloneConfig(s.cfgs)
	oldHash := config.HashConfig(s.cfgs)
	currentVersion := clonedCfg.Version
	s.Unlock()

	err := updater(clonedCfg)

	if err != nil {
		return err
	}

	config.ApplyDefaults(clonedCfg)

	clonedCfg.User = user
	clonedCfg.Date = time.Now().Unix()
	clonedCfg.Version = currentVersion + 1

	return s.persister.PersistAndNotify(oldHash, clonedCfg)
}

// Implements admin.Administrable
func (s *server) Configs() *config.ServiceConfig {
	s.RLock()
	defer s.RUnlock()
	return s.cfgs
}

func (s *server) UpdateConfig(c *config.ServiceConfig, user string) error {
	return s.updateConfig(user, func(clonedCfg *config.ServiceConfig) error {
		*clonedCfg = *c
		return nil
	})
}

func (s *server) AddFlow(f *config.FlowConfig, user string) error {
	return s.updateConfig(user, func(clonedCfg *config.ServiceConfig) error {
		return config.AddFlow(clonedCfg, f)
	})
}

func (s *server) UpdateFlow(f *config.FlowConfig, user string) error {
	return s.updateConfig(user, func(clonedCfg *config.ServiceConfig) error {
		return config.UpdateFlow(clonedCfg, f)
	})
}

func (s *server) DeleteFlow(name, user string) error {
	return s.updateConfig(user, func(clonedCfg *config.ServiceConfig) error {
		return config.DeleteFlow(clonedCfg, name)
	})
}

func (s *server) TopAdmitted() []*stats.FlowScore {
	if s.statsListener == nil {
		return nil
	}

	return s.statsListener.TopAdmitted()
}

func (s *server) TopThrottled() []*stats.FlowScore {
	if s.statsListener == nil {
		return nil
	}

	return s.statsListener.TopThrottled()
}

func (s *server) FlowStats(name string) *stats.FlowScores {
	if s.statsListener == nil {
		return nil
	}

	return s.statsListener.Get(name)
}

func (s *server) HistoricalConfigs() ([]*config.ServiceConfig, error) {
	configs, err := s.persister.ReadHistoricalConfigs()

	if err != nil {
		return nil, err
	}

	sort.Sort(sortedConfigs(configs))

	return configs, nil
}

func (s *server) GetServerAdministrable() admin.Administrable {
	return s
}
