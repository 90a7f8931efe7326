// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

// MockEndpoint is an RPC endpoint that simply captures the FlowService, for tests.
type MockEndpoint struct {
	FlowService FlowService
}

func (m *MockEndpoint) Init(fs FlowService) {
	m.FlowService = fs
}

func (m *MockEndpoint) Start() {
}

func (m *MockEndpoint) Stop() {
}
