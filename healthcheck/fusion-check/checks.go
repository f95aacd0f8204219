package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

const (
	endpointUserProfiles = "/fscmRestApi/resources/11.13.18.05/userProfiles"
	endpointAPIVersion   = "/fscmRestApi/resources/version"
	endpointAlerts       = "/fscmRestApi/resources/latest/alerts?limit=5&orderBy=CreationDate:desc"
	endpointJournals     = "/fscmRestApi/resources/11.13.18.05/journals"
)

// Checker runs the Fusion health probes. Each probe issues exactly one GET
// with a fixed timeout and never retries.
type Checker struct {
	settings *Settings
	client   *http.Client
}

func NewChecker(settings *Settings) *Checker {
	return &Checker{
		settings: settings,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// RunAll executes the five probes in fixed order. A failure in one probe
// never aborts the remaining probes.
func (c *Checker) RunAll() []CheckResult {
	return []CheckResult{
		c.CheckConnectivity(),
		c.CheckAuthentication(),
		c.CheckAPIVersion(),
		c.CheckAlerts(),
		c.CheckDeployments(),
	}
}

// get issues a single GET against the Fusion instance, optionally with
// basic-auth credentials.
func (c *Checker) get(endpoint string, authenticated bool) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.settings.BaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.SetBasicAuth(c.settings.Username, c.settings.Password)
	}

	return c.client.Do(req)
}

// CheckConnectivity probes the base URL without credentials.
func (c *Checker) CheckConnectivity() CheckResult {
	resp, err := c.get("/", false)
	if err != nil {
		return CheckResult{Check: "Connectivity", Status: StatusFail, Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return CheckResult{Check: "Connectivity", Status: StatusPass, Details: "Base URL reachable"}
	}
	return CheckResult{Check: "Connectivity", Status: StatusFail, Details: fmt.Sprintf("Status: %d", resp.StatusCode)}
}

// CheckAuthentication probes a protected endpoint with credentials.
func (c *Checker) CheckAuthentication() CheckResult {
	resp, err := c.get(endpointUserProfiles, true)
	if err != nil {
		return CheckResult{Check: "Authentication", Status: StatusFail, Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return CheckResult{Check: "Authentication", Status: StatusPass, Details: "Auth successful, user profile accessible"}
	}
	return CheckResult{Check: "Authentication", Status: StatusFail, Details: fmt.Sprintf("Status: %d", resp.StatusCode)}
}

// CheckAPIVersion probes the version endpoint and reports the raw body.
func (c *Checker) CheckAPIVersion() CheckResult {
	resp, err := c.get(endpointAPIVersion, true)
	if err != nil {
		return CheckResult{Check: "API Version", Status: StatusFail, Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		version := strings.TrimSpace(string(body))
		return CheckResult{Check: "API Version", Status: StatusPass, Details: fmt.Sprintf("Version: %s", version)}
	}
	return CheckResult{Check: "API Version", Status: StatusFail, Details: fmt.Sprintf("Status: %d", resp.StatusCode)}
}

// CheckAlerts lists recent alerts and fails on any Critical entry. Unlike the
// other probes, a transport error degrades this check to WARN, not FAIL.
func (c *Checker) CheckAlerts() CheckResult {
	resp, err := c.get(endpointAlerts, true)
	if err != nil {
		return CheckResult{Check: "Alerts", Status: StatusWarn, Details: fmt.Sprintf("Cannot fetch alerts: %s", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var payload struct {
			Items []struct {
				Severity string `json:"severity"`
			} `json:"items"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return CheckResult{Check: "Alerts", Status: StatusFail, Details: fmt.Sprintf("Cannot parse alerts: %s", err)}
		}

		critical := 0
		for _, alert := range payload.Items {
			if alert.Severity == "Critical" {
				critical++
			}
		}
		if critical > 0 {
			return CheckResult{Check: "Alerts", Status: StatusFail, Details: fmt.Sprintf("%d critical alerts found", critical)}
		}
		return CheckResult{Check: "Alerts", Status: StatusPass, Details: "No critical alerts"}
	}
	return CheckResult{Check: "Alerts", Status: StatusFail, Details: fmt.Sprintf("Status: %d", resp.StatusCode)}
}

// CheckDeployments probes a key module endpoint as a proxy for a live
// deployment.
func (c *Checker) CheckDeployments() CheckResult {
	resp, err := c.get(endpointJournals, true)
	if err != nil {
		return CheckResult{Check: "Deployments", Status: StatusFail, Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return CheckResult{Check: "Deployments", Status: StatusPass, Details: "Key deployment endpoint accessible"}
	}
	return CheckResult{Check: "Deployments", Status: StatusFail, Details: fmt.Sprintf("Status: %d", resp.StatusCode)}
}
