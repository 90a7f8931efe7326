// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package config implements configs for the flowlimit service.
package config

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io/ioutil"
	"sort"

	"gopkg.in/yaml.v2"
)

const (
	// Unlimited disables accounting on a flow altogether.
	Unlimited = int64(-1)

	initialVersion = 0
	initialHash    = "___INITIAL_HASH___"
)

// ServiceConfig is the top-level configuration of a flowlimit server: a set of named flows, plus
// versioning metadata maintained by the admin layer.
type ServiceConfig struct {
	Flows   map[string]*FlowConfig `yaml:",flow"`
	Version int32                  `yaml:"version"`
	User    string                 `yaml:"user,omitempty"`
	Date    int64                  `yaml:"date,omitempty"`
}

// FlowConfig configures a single flow. Burst and fair share are derived from Limit by the engine
// and are deliberately not configurable.
type FlowConfig struct {
	Name string `yaml:"-" json:"name"`
	// Limit is the number of tokens added to the flow's bucket per interval. Unlimited (-1)
	// bypasses all accounting.
	Limit int64 `yaml:"limit" json:"limit"`
	// IntervalMillis is the bucket refill period.
	IntervalMillis int64 `yaml:"interval_millis" json:"interval_millis"`
	// MaxIdleMillis controls reaping of the idle flow created from this config. A value < 1
	// means the flow is never reaped. Flows created through the API are never reaped.
	MaxIdleMillis int64 `yaml:"max_idle_millis" json:"max_idle_millis"`
}

func (s *ServiceConfig) String() string {
	return fmt.Sprintf("ServiceConfig{version: %v, flows: %v}", s.Version, s.Flows)
}

func (f *FlowConfig) String() string {
	return fmt.Sprintf("FlowConfig{name: %v, limit: %v, interval_millis: %v}",
		f.Name, f.Limit, f.IntervalMillis)
}

// ApplyDefaults fills in any unset fields on a service config and its flows.
func ApplyDefaults(sc *ServiceConfig) {
	if sc.Flows == nil {
		sc.Flows = make(map[string]*FlowConfig)
	}

	for name, f := range sc.Flows {
		f.Name = name
		ApplyFlowDefaults(f)
	}
}

// ApplyFlowDefaults fills in any unset fields on a flow config.
func ApplyFlowDefaults(f *FlowConfig) {
	if f.Limit == 0 {
		f.Limit = 100
	}

	if f.IntervalMillis == 0 {
		f.IntervalMillis = 1000
	}

	if f.MaxIdleMillis == 0 {
		f.MaxIdleMillis = -1
	}
}

// NewDefaultServiceConfig creates a new, empty service config with a starting version.
func NewDefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Flows:   make(map[string]*FlowConfig),
		Version: initialVersion}
}

// NewDefaultFlowConfig creates a flow config with defaults applied.
func NewDefaultFlowConfig(name string) *FlowConfig {
	f := &FlowConfig{Name: name}
	ApplyFlowDefaults(f)
	return f
}

// AddFlow adds a flow config to a service config, erroring on duplicates.
func AddFlow(sc *ServiceConfig, f *FlowConfig) error {
	if f.Name == "" {
		return errors.New("flow name cannot be empty")
	}

	if sc.Flows == nil {
		sc.Flows = make(map[string]*FlowConfig)
	}

	if _, exists := sc.Flows[f.Name]; exists {
		return errors.New("flow " + f.Name + " already exists")
	}

	sc.Flows[f.Name] = f
	return nil
}

// UpdateFlow replaces an existing flow config, erroring if it doesn't exist.
func UpdateFlow(sc *ServiceConfig, f *FlowConfig) error {
	if _, exists := sc.Flows[f.Name]; !exists {
		return errors.New("flow " + f.Name + " doesn't exist")
	}

	sc.Flows[f.Name] = f
	return nil
}

// DeleteFlow removes a flow config, erroring if it doesn't exist.
func DeleteFlow(sc *ServiceConfig, name string) error {
	if _, exists := sc.Flows[name]; !exists {
		return errors.New("flow " + name + " doesn't exist")
	}

	delete(sc.Flows, name)
	return nil
}

// FlowNames returns the sorted names of all configured flows.
func FlowNames(sc *ServiceConfig) []string {
	names := make([]string, 0, len(sc.Flows))
	for name := range sc.Flows {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Marshal serializes a service config to YAML.
func Marshal(sc *ServiceConfig) ([]byte, error) {
	return yaml.Marshal(sc)
}

// Unmarshal reads a service config from YAML, applying defaults.
func Unmarshal(b []byte) (*ServiceConfig, error) {
	sc := &ServiceConfig{}
	if err := yaml.Unmarshal(b, sc); err != nil {
		return nil, err
	}

	ApplyDefaults(sc)
	return sc, nil
}

// ReadConfigFromFile loads a service config from a YAML file. Panics on I/O or parse errors,
// since a bad config file should prevent startup.
func ReadConfigFromFile(filename string) *ServiceConfig {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("Unable to open file %v. Error: %v", filename, err))
	}

	sc, err := Unmarshal(b)
	if err != nil {
		panic(fmt.Sprintf("Unable to parse config file %v. Error: %v", filename, err))
	}

	return sc
}

// CloneConfig deep-copies a service config.
func CloneConfig(sc *ServiceConfig) *ServiceConfig {
	if sc == nil {
		return nil
	}

	clone := &ServiceConfig{
		Flows:   make(map[string]*FlowConfig, len(sc.Flows)),
		Version: sc.Version,
		User:    sc.User,
		Date:    sc.Date}

	for name, f := range sc.Flows {
		c := *f
		clone.Flows[name] = &c
	}

	return clone
}

// CloneConfigs clones a map of configs into a slice.
func CloneConfigs(configs map[string]*ServiceConfig) []*ServiceConfig {
	cloned := make([]*ServiceConfig, 0, len(configs))
	for _, c := range configs {
		cloned = append(cloned, CloneConfig(c))
	}

	return cloned
}

// HashConfig produces a stable hash of a config's serialized form, used to key persisted
// configurations.
func HashConfig(sc *ServiceConfig) string {
	b, err := Marshal(sc)
	if err != nil {
		return initialHash
	}

	return HashConfigBytes(b)
}

// HashConfigBytes hashes a marshalled config.
func HashConfigBytes(b []byte) string {
	sum := sha1.Sum(b)
	return base64.URLEncoding.EncodeToString(sum[:])
}

// DifferentFlowConfigs tells you whether two flow configs differ in any materially significant
// field.
func DifferentFlowConfigs(a, b *FlowConfig) bool {
	if a == nil || b == nil {
		return a != b
	}

	return a.Limit != b.Limit ||
		a.IntervalMillis != b.IntervalMillis ||
		a.MaxIdleMillis != b.MaxIdleMillis
}
