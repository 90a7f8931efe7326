// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package admin

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/square/flowlimit/stats"
)

func doStatsRequest(t *testing.T, a Administrable, object interface{}, method, path string) {
	handler := newStatsAPIHandler(a)

	req := httptest.NewRequest(method, path, strings.NewReader(""))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if err := unmarshalJSON(w.Body, object); err != nil {
		t.Fatalf("Could not unmarshal response: %v", err)
	}
}

func TestStatsTopLists(t *testing.T) {
	response := &flowStats{}
	doStatsRequest(t, NewMockAdministrable(), response, "GET", "/api/stats")

	if response.Admitted == nil || response.Throttled == nil {
		t.Errorf("Expected top lists, got %+v", response)
	}
}

func TestStatsForFlow(t *testing.T) {
	response := &stats.FlowScores{}
	doStatsRequest(t, NewMockAdministrable(), response, "GET", "/api/stats/known")

	if response.Admitted != 10 || response.Throttled != 2 {
		t.Errorf("Expected known flow scores, got %+v", response)
	}
}

func TestStatsForUnknownFlow(t *testing.T) {
	jsonResponse := make(map[string]string)
	doStatsRequest(t, NewMockAdministrable(), &jsonResponse, "GET", "/api/stats/unknown")

	if jsonResponse["description"] != "No stats available for flow unknown" {
		t.Errorf("Expected not found, got %+v", jsonResponse)
	}
}

func TestStatsUnknownMethod(t *testing.T) {
	jsonResponse := make(map[string]string)
	doStatsRequest(t, NewMockAdministrable(), &jsonResponse, "POST", "/api/stats")

	if jsonResponse["description"] != "Unknown method POST" {
		t.Errorf("Expected unknown method error, got %+v", jsonResponse)
	}
}
