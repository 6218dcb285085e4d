package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
storage:
  path: "/var/lib/trainup"
ai:
  api_key: "gemini-key-123"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/var/lib/trainup" {
		t.Errorf("storage.path = %q, want %q", cfg.Storage.Path, "/var/lib/trainup")
	}
	if cfg.AI.APIKey != "gemini-key-123" {
		t.Errorf("ai.api_key = %q, want %q", cfg.AI.APIKey, "gemini-key-123")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
}

// TestEnvOverride verifies that TRAINUP_ env vars take precedence over YAML values.
// This ensures production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("TRAINUP_SERVER_PORT", "9999")
	t.Setenv("TRAINUP_AI_API_KEY", "env-gemini-key")
	t.Setenv("TRAINUP_AI_CHAT_MODEL", "env-chat-model")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.AI.APIKey != "env-gemini-key" {
		t.Errorf("ai.api_key = %q, want %q", cfg.AI.APIKey, "env-gemini-key")
	}
	if cfg.AI.ChatModel != "env-chat-model" {
		t.Errorf("ai.chat_model = %q, want %q", cfg.AI.ChatModel, "env-chat-model")
	}
	// Unchanged fields should keep YAML values
	if cfg.Storage.Path != "/var/lib/trainup" {
		t.Errorf("storage.path = %q, want %q", cfg.Storage.Path, "/var/lib/trainup")
	}
}

// TestValidationMissingPort verifies that missing required fields produce a clear error.
// Prevents starting the server with incomplete configuration.
func TestValidationMissingPort(t *testing.T) {
	yaml := `
server:
  host: "0.0.0.0"
storage:
  path: "/var/lib/trainup"
ai:
  api_key: "key"
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing port")
	}
}

// TestValidationMissingAIKey verifies that a missing AI key is rejected.
// Without it every coach request would fail at runtime instead of startup.
func TestValidationMissingAIKey(t *testing.T) {
	yaml := `
server:
  port: 8080
storage:
  path: "/var/lib/trainup"
ai: {}
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing ai.api_key")
	}
}

// TestValidationTailscaleHostname verifies that enabling tailscale without a
// hostname is rejected, while the port requirement is lifted.
func TestValidationTailscaleHostname(t *testing.T) {
	yaml := `
tailscale:
  enabled: true
storage:
  path: "/var/lib/trainup"
ai:
  api_key: "key"
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing tailscale.hostname")
	}

	yaml = `
tailscale:
  enabled: true
  hostname: "trainup"
storage:
  path: "/var/lib/trainup"
ai:
  api_key: "key"
`
	if _, err := Load(writeTemp(t, yaml)); err != nil {
		t.Fatalf("tailscale config without port should be valid, got: %v", err)
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
