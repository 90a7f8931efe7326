// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package admin serves a REST API (and an optional template-driven UI) for administering the
// flows of a running flowlimit server.
package admin

import (
	"net/http"

	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/logging"
	"github.com/square/flowlimit/stats"
)

// Administrable defines something that can be administered via this package.
type Administrable interface {
	Configs() *config.ServiceConfig
	HistoricalConfigs() ([]*config.ServiceConfig, error)

	UpdateConfig(*config.ServiceConfig, string) error

	AddFlow(*config.FlowConfig, string) error
	UpdateFlow(*config.FlowConfig, string) error
	DeleteFlow(string, string) error

	TopAdmitted() []*stats.FlowScore
	TopThrottled() []*stats.FlowScore
	FlowStats(string) *stats.FlowScores
}

// HttpError wraps an error message with the HTTP status it should be reported as.
type HttpError struct {
	message string
	status  int
}

// ServeAdminConsole serves up an admin console for an Administrable over a http server.
// assetsDirectory contains HTML templates and other UI assets. If empty, no UI will be served,
// and only REST endpoints under /api/ will be served instead. development reloads templates on
// every request.
func ServeAdminConsole(a Administrable, mux *http.ServeMux, assetsDirectory string, development bool) {
	logging.Print("Serving admin console.")

	if assetsDirectory != "" {
		serveUI(a, mux, assetsDirectory, development)
	} else {
		logging.Print("Not serving UI.")
	}

	mux.Handle("/api/flows", newFlowsAPIHandler(a))
	mux.Handle("/api/flows/", newFlowsAPIHandler(a))
	mux.Handle("/api/stats", newStatsAPIHandler(a))
	mux.Handle("/api/stats/", newStatsAPIHandler(a))
	mux.Handle("/api/configs", newConfigsAPIHandler(a))
	mux.Handle("/api/config", newConfigAPIHandler(a))
}

// getUsername extracts the user recorded against config changes. Basic auth is trusted as-is;
// authentication proper is the deployment's concern.
func getUsername(r *http.Request) string {
	user, _, ok := r.BasicAuth()
	if !ok || user == "" {
		return "unknown"
	}

	return user
}
