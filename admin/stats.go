// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package admin

import (
	"net/http"
	"strings"

	"github.com/square/flowlimit/stats"
)

type statsAPIHandler struct {
	a Administrable
}

type flowStats struct {
	Admitted  []*stats.FlowScore `json:"topAdmitted"`
	Throttled []*stats.FlowScore `json:"topThrottled"`
}

func newStatsAPIHandler(admin Administrable) *statsAPIHandler {
	return &statsAPIHandler{a: admin}
}

func (a *statsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flow := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/stats"), "/")

	if r.Method != "GET" {
		writeJSONError(w, &HttpError{"Unknown method " + r.Method, http.StatusBadRequest})
		return
	}

	if flow == "" {
		writeJSON(w, &flowStats{
			Admitted:  a.a.TopAdmitted(),
			Throttled: a.a.TopThrottled()})
		return
	}

	stat := a.a.FlowStats(flow)

	if stat == nil {
		writeJSONError(w, &HttpError{"No stats available for flow " + flow, http.StatusNotFound})
		return
	}

	writeJSON(w, stat)
}
