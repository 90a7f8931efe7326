// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package admin

import (
	"errors"

	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/stats"
)

type MockAdministrable struct {
	cfg    *config.ServiceConfig
	errors bool

	// lastAdded is the flow config most recently passed to AddFlow.
	lastAdded *config.FlowConfig
}

func NewMockErrorAdministrable() *MockAdministrable {
	return &MockAdministrable{config.NewDefaultServiceConfig(), true}
}

func NewMockAdministrable() *MockAdministrable {
	return &MockAdministrable{config.NewDefaultServiceConfig(), false}
}

func (m *MockAdministrable) Configs() *config.ServiceConfig {
	return m.cfg
}

func (m *MockAdministrable) HistoricalConfigs() ([]*config.ServiceConfig, error) {
	if m.errors {
		return nil, errors.New("HistoricalConfigs")
	}

	return []*config.ServiceConfig{m.cfg}, nil
}

func (m *MockAdministrable) UpdateConfig(c *config.ServiceConfig, user string) error {
	if m.errors {
		return errors.New("UpdateConfig")
	}

	return nil
}

func (m *MockAdministrable) AddFlow(f *config.FlowConfig, user string) error {
	m.lastAdded = f

	if m.errors {
		return errors.New("AddFlow")
	}

	return nil
}

func (m *MockAdministrable) UpdateFlow(f *config.FlowConfig, user string) error {
	if m.errors {
		return errors.New("UpdateFlow")
	}

	return nil
}

func (m *MockAdministrable) DeleteFlow(name, user string) error {
	if m.errors {
		return errors.New("DeleteFlow")
	}

	return nil
}

func (m *MockAdministrable) TopAdmitted() []*stats.FlowScore {
	return []*stats.FlowScore{}
}

func (m *MockAdministrable) TopThrottled() []*stats.FlowScore {
	return []*stats.FlowScore{}
}

func (m *MockAdministrable) FlowStats(flow string) *stats.FlowScores {
	if flow == "known" {
		return &stats.FlowScores{Admitted: 10, Throttled: 2}
	}

	return nil
}
