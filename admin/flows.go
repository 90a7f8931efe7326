// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package admin

import (
	"io"
	"net/http"
	"strings"

	"github.com/square/flowlimit/config"
)

type flowsAPIHandler struct {
	a Administrable
}

func newFlowsAPIHandler(admin Administrable) *flowsAPIHandler {
	return &flowsAPIHandler{a: admin}
}

func (a *flowsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flow := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/flows"), "/")
	user := getUsername(r)

	switch r.Method {
	case "GET":
		if err := a.writeFlows(w, flow); err != nil {
			writeJSONError(w, err)
		}
	case "DELETE":
		if flow == "" {
			writeJSONError(w, &HttpError{"No flow given", http.StatusBadRequest})
			return
		}

		if err := a.a.DeleteFlow(flow, user); err != nil {
			writeJSONError(w, &HttpError{err.Error(), http.StatusBadRequest})
		} else {
			writeJSONOk(w)
		}
	case "PUT":
		a.changeFlow(w, r, flow, func(c *config.FlowConfig) error {
			return a.a.UpdateFlow(c, user)
		})
	case "POST":
		a.changeFlow(w, r, flow, func(c *config.FlowConfig) error {
			return a.a.AddFlow(c, user)
		})
	default:
		writeJSONError(w, &HttpError{"Unknown method " + r.Method, http.StatusBadRequest})
	}
}

func (a *flowsAPIHandler) changeFlow(w http.ResponseWriter, r *http.Request, flow string, updater func(*config.FlowConfig) error) {
	c, e := getFlowConfig(r.Body)

	if e != nil {
		writeJSONError(w, &HttpError{e.Error(), http.StatusInternalServerError})
		return
	}

	if c.Name == "" {
		c.Name = flow
	}

	if e = updater(c); e != nil {
		writeJSONError(w, &HttpError{e.Error(), http.StatusInternalServerError})
	} else {
		writeJSONOk(w)
	}
}

func getFlowConfig(r io.Reader) (*config.FlowConfig, error) {
	c := &config.FlowConfig{}
	err := unmarshalJSON(r, c)
	config.ApplyFlowDefaults(c)
	return c, err
}

func (a *flowsAPIHandler) writeFlows(w http.ResponseWriter, flow string) *HttpError {
	cfg := a.a.Configs()

	if flow == "" {
		// List every configured flow.
		flows := make([]*config.FlowConfig, 0, len(cfg.Flows))
		for _, name := range config.FlowNames(cfg) {
			flows = append(flows, cfg.Flows[name])
		}

		writeJSON(w, flows)
		return nil
	}

	flowConfig, exists := cfg.Flows[flow]

	if !exists {
		return &HttpError{"Unable to locate flow " + flow, http.StatusNotFound}
	}

	writeJSON(w, flowConfig)
	return nil
}
