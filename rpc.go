// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

// RpcEndpoint defines the interface for RPC endpoints that forward requests to a FlowService.
type RpcEndpoint interface {
	// Init initializes the RPC endpoint with an instance of FlowService.
	Init(fs FlowService)

	// Start starts the RPC endpoint.
	Start()

	// Stop stops the RPC endpoint.
	Stop()
}
