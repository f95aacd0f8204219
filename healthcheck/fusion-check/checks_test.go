package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const alertsPath = "/fscmRestApi/resources/latest/alerts"

// fusionStub is a fake Fusion instance for the probes. Scenario tests can
// override individual endpoint handlers; everything else answers 200.
type fusionStub struct {
	handlers map[string]http.HandlerFunc
}

func newFusionStub(t *testing.T) *fusionStub {
	stub := &fusionStub{handlers: map[string]http.HandlerFunc{}}

	stub.handle("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "connectivity probe must not send credentials")
	})
	stub.handle(endpointUserProfiles, func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		assert.True(t, ok, "authenticated probes must send basic auth")
		assert.Equal(t, "tester", username)
		assert.Equal(t, "secret", password)
	})
	stub.handle(endpointAPIVersion, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("11.13.18.05\n"))
	})
	stub.handle(alertsPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "CreationDate:desc", r.URL.Query().Get("orderBy"))
		w.Write([]byte(`{"items": [{"severity": "Low"}, {"severity": "High"}]}`))
	})
	stub.handle(endpointJournals, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	})

	return stub
}

func (s *fusionStub) handle(path string, fn http.HandlerFunc) {
	s.handlers[path] = fn
}

func (s *fusionStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if fn, ok := s.handlers[r.URL.Path]; ok {
		fn(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *fusionStub) checker(t *testing.T) (*Checker, *httptest.Server) {
	server := httptest.NewServer(s)
	t.Cleanup(server.Close)

	settings := &Settings{BaseURL: server.URL, Username: "tester", Password: "secret"}
	return NewChecker(settings), server
}

func TestHealthChecks(t *testing.T) {
	for scenario, fn := range map[string]func(
		tt *testing.T,
	){
		"all probes healthy":                       testAllHealthy,
		"alerts transport error degrades to WARN":  testAlertsTransportWarn,
		"critical alerts fail the alerts probe":    testCriticalAlertsFail,
		"auth failure overrides an alerts warning": testFailOverridesWarn,
		"unreachable instance":                     testUnreachableInstance,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testAllHealthy(t *testing.T) {
	checker, _ := newFusionStub(t).checker(t)

	checks := checker.RunAll()
	assert.Len(t, checks, 5)

	expectedOrder := []string{"Connectivity", "Authentication", "API Version", "Alerts", "Deployments"}
	for i, check := range checks {
		assert.Equal(t, expectedOrder[i], check.Check)
		assert.Equal(t, StatusPass, check.Status, "%s should pass: %s", check.Check, check.Details)
	}

	assert.Equal(t, "Version: 11.13.18.05", checks[2].Details)
	assert.Equal(t, "No critical alerts", checks[3].Details)

	report := NewHealthReport(checker.settings.BaseURL, checks)
	assert.Equal(t, StatusPass, report.OverallStatus)
}

func testAlertsTransportWarn(t *testing.T) {
	stub := newFusionStub(t)
	stub.handle(alertsPath, func(w http.ResponseWriter, r *http.Request) {
		// Drop the connection so the client sees a transport error,
		// not an HTTP status.
		panic(http.ErrAbortHandler)
	})
	checker, _ := stub.checker(t)

	checks := checker.RunAll()
	assert.Equal(t, StatusWarn, checks[3].Status)
	assert.True(t, strings.HasPrefix(checks[3].Details, "Cannot fetch alerts:"), "got %q", checks[3].Details)

	report := NewHealthReport(checker.settings.BaseURL, checks)
	assert.Equal(t, StatusWarn, report.OverallStatus, "a single WARN among PASS checks yields overall WARN")
}

func testCriticalAlertsFail(t *testing.T) {
	stub := newFusionStub(t)
	stub.handle(alertsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"severity": "Critical"}, {"severity": "Low"}, {"severity": "Critical"}]}`))
	})
	checker, _ := stub.checker(t)

	checks := checker.RunAll()
	assert.Equal(t, StatusFail, checks[3].Status)
	assert.Equal(t, "2 critical alerts found", checks[3].Details)

	report := NewHealthReport(checker.settings.BaseURL, checks)
	assert.Equal(t, StatusFail, report.OverallStatus)
}

func testFailOverridesWarn(t *testing.T) {
	stub := newFusionStub(t)
	stub.handle(endpointUserProfiles, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	stub.handle(alertsPath, func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})
	checker, _ := stub.checker(t)

	checks := checker.RunAll()
	assert.Equal(t, StatusFail, checks[1].Status)
	assert.Equal(t, "Status: 401", checks[1].Details)
	assert.Equal(t, StatusWarn, checks[3].Status)

	report := NewHealthReport(checker.settings.BaseURL, checks)
	assert.Equal(t, StatusFail, report.OverallStatus, "any FAIL overrides a WARN")
}

func testUnreachableInstance(t *testing.T) {
	checker, server := newFusionStub(t).checker(t)
	server.Close()

	checks := checker.RunAll()
	assert.Len(t, checks, 5, "one failing probe never aborts the remaining probes")

	// Transport errors carry the error message, not a status code.
	assert.Equal(t, StatusFail, checks[0].Status)
	assert.False(t, strings.HasPrefix(checks[0].Details, "Status:"))

	// The alerts probe alone degrades to WARN on transport errors.
	assert.Equal(t, StatusWarn, checks[3].Status)

	report := NewHealthReport(checker.settings.BaseURL, checks)
	assert.Equal(t, StatusFail, report.OverallStatus)
}
