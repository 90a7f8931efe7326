// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/square/flowlimit"
	"github.com/square/flowlimit/lifecycle"
	"github.com/square/flowlimit/logging"
)

// HTTP-backed implementation of an RPC endpoint
type HttpEndpoint struct {
	hostport      string
	server        *http.Server
	currentStatus lifecycle.Status
	fs            flowlimit.FlowService
}

type takeResponse struct {
	Granted    int64 `json:"granted"`
	WaitMillis int64 `json:"wait_millis"`
}

type limitResponse struct {
	Limit int64 `json:"limit"`
}

type prevAllowedResponse struct {
	PrevAllowed int64 `json:"prev_allowed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(hostport string) *HttpEndpoint {
	return &HttpEndpoint{hostport: hostport}
}

func (h *HttpEndpoint) Init(fs flowlimit.FlowService) {
	h.fs = fs
}

func (h *HttpEndpoint) Start() {
	r := mux.NewRouter()
	r.HandleFunc("/take/{flow}/{tokens:[0-9]+}", h.handleTake).Methods("POST")
	r.HandleFunc("/limit/{flow}", h.handleGetLimit).Methods("GET")
	r.HandleFunc("/limit/{flow}/{limit:-?[0-9]+}", h.handleSetLimit).Methods("PUT")
	r.HandleFunc("/prev_allowed/{flow}", h.handlePrevAllowed).Methods("GET")

	h.server = &http.Server{Addr: h.hostport, Handler: r}

	lis, err := net.Listen("tcp", h.hostport)
	if err != nil {
		logging.Fatalf("Cannot start HTTP endpoint on %v. Error %v", h.hostport, err)
	}

	go func() { _ = h.server.Serve(lis) }()
	h.currentStatus = lifecycle.Started
	logging.Printf("Starting HTTP endpoint on %v", h.hostport)
}

func (h *HttpEndpoint) Stop() {
	h.currentStatus = lifecycle.Draining
	_ = h.server.Close()
	h.currentStatus = lifecycle.Stopped
}

func (h *HttpEndpoint) handleTake(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tokens, err := strconv.ParseInt(vars["tokens"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	if err := h.fs.Take(r.Context(), vars["flow"], tokens); err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJSON(w, &takeResponse{
		Granted:    tokens,
		WaitMillis: int64(time.Since(start) / time.Millisecond)})
}

func (h *HttpEndpoint) handleGetLimit(w http.ResponseWriter, r *http.Request) {
	limit, err := h.fs.GetLimit(mux.Vars(r)["flow"])
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJSON(w, &limitResponse{Limit: limit})
}

func (h *HttpEndpoint) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, err := strconv.ParseInt(vars["limit"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.fs.SetLimit(vars["flow"], limit); err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJSON(w, &limitResponse{Limit: limit})
}

func (h *HttpEndpoint) handlePrevAllowed(w http.ResponseWriter, r *http.Request) {
	prev, err := h.fs.PrevAllowed(mux.Vars(r)["flow"])
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJSON(w, &prevAllowedResponse{PrevAllowed: prev})
}

func statusCode(err error) int {
	if flErr, ok := err.(flowlimit.FlowLimitError); ok {
		switch flErr.Reason {
		case flowlimit.ER_NO_SUCH_FLOW:
			return http.StatusNotFound
		case flowlimit.ER_FLOW_EXISTS:
			return http.StatusConflict
		case flowlimit.ER_INVALID_ARGUMENT:
			return http.StatusBadRequest
		case flowlimit.ER_CANCELLED:
			return http.StatusRequestTimeout
		}
	}

	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	writeJSON(w, &errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, object interface{}) {
	b, e := json.Marshal(object)
	if e != nil {
		logging.Printf("Error writing JSON! %+v", e)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, e = w.Write(b); e != nil {
		logging.Printf("Error writing JSON! %+v", e)
	}
}
