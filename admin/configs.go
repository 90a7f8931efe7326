// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package admin

import (
	"net/http"

	"github.com/square/flowlimit/config"
)

type configsAPIHandler struct {
	a Administrable
}

func newConfigsAPIHandler(admin Administrable) *configsAPIHandler {
	return &configsAPIHandler{a: admin}
}

// ServeHTTP serves the history of persisted configurations, newest first.
func (a *configsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		writeJSONError(w, &HttpError{"Unknown method " + r.Method, http.StatusBadRequest})
		return
	}

	configs, err := a.a.HistoricalConfigs()

	if err != nil {
		writeJSONError(w, &HttpError{err.Error(), http.StatusInternalServerError})
		return
	}

	writeJSON(w, configs)
}

type configAPIHandler struct {
	a Administrable
}

func newConfigAPIHandler(admin Administrable) *configAPIHandler {
	return &configAPIHandler{a: admin}
}

// ServeHTTP serves the current configuration on GET, and replaces it wholesale on POST.
func (a *configAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		writeJSON(w, a.a.Configs())
	case "POST":
		c := &config.ServiceConfig{}

		if err := unmarshalJSON(r.Body, c); err != nil {
			writeJSONError(w, &HttpError{err.Error(), http.StatusBadRequest})
			return
		}

		if err := a.a.UpdateConfig(c, getUsername(r)); err != nil {
			writeJSONError(w, &HttpError{err.Error(), http.StatusInternalServerError})
			return
		}

		writeJSONOk(w)
	default:
		writeJSONError(w, &HttpError{"Unknown method " + r.Method, http.StatusBadRequest})
	}
}
