package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Provider != "ollama" || c.Model != "mistral" {
		t.Fatalf("inference defaults: %+v", c)
	}
	if c.InferenceTimeout() != 0 {
		t.Fatalf("expected no inference timeout by default, got %v", c.InferenceTimeout())
	}
	if c.Addr != "127.0.0.1:7860" || c.UploadLimit != "32M" || !c.RequestLogging {
		t.Fatalf("server defaults: %+v", c)
	}
	if c.ArtifactTTL() != 0 || c.ArtifactsDir != "./artifacts" {
		t.Fatalf("artifact defaults: %+v", c)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: llama3\ninference_timeout_sec: 30\naddr: 0.0.0.0:9000\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EDALENS_ADDR", "127.0.0.1:9999")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Model != "llama3" {
		t.Fatalf("model from file: %q", c.Model)
	}
	if c.InferenceTimeout() != 30*time.Second {
		t.Fatalf("timeout: %v", c.InferenceTimeout())
	}
	if c.Addr != "127.0.0.1:9999" {
		t.Fatalf("env should override file, got %q", c.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Set(c, "provider", "OpenAI"); err != nil {
		t.Fatalf("Set provider: %v", err)
	}
	if err := Set(c, "artifact_ttl_minutes", "15"); err != nil {
		t.Fatalf("Set ttl: %v", err)
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Provider != "openai" || back.ArtifactTTL() != 15*time.Minute {
		t.Fatalf("round trip: %+v", back)
	}
}

func TestSetValidation(t *testing.T) {
	c := &Global{}
	bad := [][2]string{
		{"provider", "openrouter"},
		{"inference_timeout_sec", "-1"},
		{"upload_limit", "lots"},
		{"request_logging", "maybe"},
		{"log_level", "loud"},
		{"max_rows", "x"},
		{"nope", "1"},
	}
	for _, b := range bad {
		if err := Set(c, b[0], b[1]); err == nil {
			t.Errorf("Set(%q, %q): expected error", b[0], b[1])
		}
	}
	if err := Set(c, "upload_limit", "1G"); err != nil || c.UploadLimit != "1G" {
		t.Fatalf("upload_limit: %v %q", err, c.UploadLimit)
	}
	if err := Set(c, "log_level", "DEBUG"); err != nil || c.LogLevel != "debug" {
		t.Fatalf("log_level: %v %q", err, c.LogLevel)
	}
}

func TestLoadStoredIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: llama3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EDALENS_MODEL", "phi3")
	t.Setenv("EDALENS_ADDR", "0.0.0.0:1")
	c, err := LoadStored(path)
	if err != nil {
		t.Fatalf("LoadStored: %v", err)
	}
	if c.Model != "llama3" || c.Addr != "127.0.0.1:7860" {
		t.Fatalf("env leaked into stored config: model=%q addr=%q", c.Model, c.Addr)
	}
}
