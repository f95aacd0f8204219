package main

import (
	"errors"
	"os"
)

// Settings holds the Fusion instance configuration for one run.
type Settings struct {
	BaseURL  string
	Username string
	Password string
}

// LoadSettings reads the Fusion configuration from the environment.
func LoadSettings() (*Settings, error) {
	settings := &Settings{
		BaseURL:  os.Getenv("FUSION_BASE_URL"),
		Username: os.Getenv("FUSION_USERNAME"),
		Password: os.Getenv("FUSION_PASSWORD"),
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *Settings) Validate() error {
	if s.BaseURL == "" {
		return errors.New("FUSION_BASE_URL must be set")
	}
	if s.Username == "" {
		return errors.New("FUSION_USERNAME must be set")
	}
	if s.Password == "" {
		return errors.New("FUSION_PASSWORD must be set")
	}
	return nil
}
