// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package flowlimit

import (
	"net/http"

	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/events"
	"github.com/square/flowlimit/logging"
	"github.com/square/flowlimit/stats"
)

// The Server interface is what you get when you create a new flowlimit server.
type Server interface {
	Start() (bool, error)
	Stop() (bool, error)
	SetLogger(logger logging.Logger)
	SetListener(listener events.Listener, eventQueueBufSize int)
	SetStatsListener(listener stats.Listener)
	ServeAdminConsole(mux *http.ServeMux, assetsDir string, development bool)
}

// NewWithDefaultConfig creates a server backed by a memory persister pre-loaded with cfg.
func NewWithDefaultConfig(cfg *config.ServiceConfig, rpcEndpoints ...RpcEndpoint) Server {
	return New(config.NewMemoryConfig(cfg), rpcEndpoints...)
}

// New creates a new flowlimit server.
func New(persister config.ConfigPersister, rpcEndpoints ...RpcEndpoint) Server {
	if len(rpcEndpoints) == 0 {
		panic("Need at least 1 RPC endpoint to run the flowlimit service.")
	}

	return &server{
		persister:    persister,
		rpcEndpoints: rpcEndpoints}
}
