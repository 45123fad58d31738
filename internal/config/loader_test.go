package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
interview:
  transcript_window: 6
  chatty_answer_chars: 900
  max_validation_attempts: 2
model:
  name: "meta-llama/llama-3.1-8b-instruct"
  temperature: 0.5
  max_tokens: 1000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetTranscriptWindow() != 6 {
		t.Errorf("transcript window %d, want 6", cfg.GetTranscriptWindow())
	}
	if cfg.GetChattyAnswerChars() != 900 {
		t.Errorf("chatty chars %d, want 900", cfg.GetChattyAnswerChars())
	}
	if cfg.GetMaxValidationAttempts() != 2 {
		t.Errorf("attempts %d, want 2", cfg.GetMaxValidationAttempts())
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
interview:
  transcript_window: 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defaults := Default()
	if cfg.GetTranscriptWindow() != 4 {
		t.Errorf("transcript window %d, want 4", cfg.GetTranscriptWindow())
	}
	if cfg.GetMaxValidationAttempts() != defaults.GetMaxValidationAttempts() {
		t.Errorf("unset fields must keep defaults")
	}
	if cfg.Model.Name != defaults.Model.Name {
		t.Errorf("model name %q, want default", cfg.Model.Name)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero window":      "interview:\n  transcript_window: 0\n",
		"bad temperature":  "model:\n  temperature: 3.5\n",
		"empty model name": "model:\n  name: \"\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAppConfigValidate(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfg := LoadAppConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without API key")
	}

	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	cfg = LoadAppConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.OpenRouter.BaseURL == "" || cfg.Server.Port == 0 {
		t.Error("defaults not applied")
	}
}

func TestAppConfigEnvOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENROUTER_TIMEOUT", "30s")
	t.Setenv("SESSION_DIR", "/tmp/iv-sessions")

	cfg := LoadAppConfig()
	if cfg.Server.Port != 9090 {
		t.Errorf("port %d, want 9090", cfg.Server.Port)
	}
	if cfg.OpenRouter.Timeout.Seconds() != 30 {
		t.Errorf("timeout %v, want 30s", cfg.OpenRouter.Timeout)
	}
	if cfg.SessionDir != "/tmp/iv-sessions" {
		t.Errorf("session dir %q", cfg.SessionDir)
	}
}
