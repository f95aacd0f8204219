package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const reportFileName = "fusion_health_report.json"

// main entry method for the health check run.
func main() {

	// Initializing environment. A .env file is optional.
	_ = godotenv.Load()

	log.SetFormatter(&log.JSONFormatter{})
	ll, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(ll)
	}

	settings, err := LoadSettings()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	checker := NewChecker(settings)
	report := NewHealthReport(settings.BaseURL, checker.RunAll())

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Cannot render health report: %v", err)
	}

	// Output to console
	fmt.Println(string(out))

	// Save to file
	if err := os.WriteFile(reportFileName, out, 0644); err != nil {
		log.Fatalf("Cannot write health report: %v", err)
	}

	log.Info("Health check report saved to ", reportFileName)
}
