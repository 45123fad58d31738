package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no interview.yaml is present.
func Default() *Config {
	return &Config{
		Interview: InterviewConfig{
			TranscriptWindow:      8,
			ChattyAnswerChars:     1200,
			MaxValidationAttempts: 3,
		},
		Model: ModelConfig{
			Name:        "meta-llama/llama-3.1-8b-instruct",
			Temperature: 0.7,
			MaxTokens:   1500,
		},
	}
}

// Load reads and validates the interview configuration from a YAML file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Interview.TranscriptWindow <= 0 {
		return fmt.Errorf("transcript_window must be greater than 0")
	}

	if config.Interview.ChattyAnswerChars <= 0 {
		return fmt.Errorf("chatty_answer_chars must be greater than 0")
	}

	if config.Interview.MaxValidationAttempts <= 0 {
		return fmt.Errorf("max_validation_attempts must be greater than 0")
	}

	if config.Model.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}

	if config.Model.Temperature < 0 || config.Model.Temperature > 2 {
		return fmt.Errorf("model temperature must be between 0 and 2")
	}

	return nil
}
