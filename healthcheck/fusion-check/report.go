package main

import "time"

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusWarn = "WARN"
)

// CheckResult is the outcome of a single probe.
type CheckResult struct {
	Check   string `json:"check"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthReport aggregates the probe results for one run.
type HealthReport struct {
	Timestamp     string        `json:"timestamp"`
	FusionURL     string        `json:"fusion_url"`
	HealthChecks  []CheckResult `json:"health_checks"`
	OverallStatus string        `json:"overall_status"`
}

// NewHealthReport derives the overall status from the individual results.
// Insertion order of the checks is preserved.
func NewHealthReport(fusionURL string, checks []CheckResult) HealthReport {
	return HealthReport{
		Timestamp:     time.Now().Format(time.RFC3339),
		FusionURL:     fusionURL,
		HealthChecks:  checks,
		OverallStatus: overallStatus(checks),
	}
}

// overallStatus applies the precedence FAIL > WARN > PASS.
func overallStatus(checks []CheckResult) string {
	allPass := true
	for _, c := range checks {
		if c.Status == StatusFail {
			return StatusFail
		}
		if c.Status != StatusPass {
			allPass = false
		}
	}
	if allPass {
		return StatusPass
	}
	return StatusWarn
}
