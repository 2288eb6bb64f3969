package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/rs/zerolog"
)

// Set assigns one key from its string form, validating the value.
func Set(c *Global, key, val string) error {
	switch key {
	case "provider":
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "ollama", "local":
			c.Provider = "ollama"
		case "openai", "openai-compatible", "lmstudio":
			c.Provider = "openai"
		default:
			return fmt.Errorf("invalid provider: %s (use ollama or openai)", val)
		}
	case "model":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.Model = val
	case "ollama_host":
		c.OllamaHost = val
	case "openai_base_url":
		c.OpenAIBaseURL = val
	case "openai_api_key":
		c.OpenAIAPIKey = val
	case "inference_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for inference_timeout_sec: %v", val)
		}
		c.InferenceTimeoutSec = i
	case "addr":
		c.Addr = val
	case "upload_limit":
		// same size syntax the body-limit middleware accepts (e.g. 32M, 1G)
		if _, err := bytes.Parse(val); err != nil {
			return fmt.Errorf("invalid upload_limit: %w", err)
		}
		c.UploadLimit = val
	case "request_logging":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for request_logging: %v", val)
		}
		c.RequestLogging = b
	case "artifacts_dir":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("artifacts_dir cannot be empty")
		}
		c.ArtifactsDir = val
	case "artifact_ttl_minutes":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for artifact_ttl_minutes: %v", val)
		}
		c.ArtifactTTLMinutes = i
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "log_level":
		if _, err := zerolog.ParseLevel(strings.ToLower(val)); err != nil {
			return fmt.Errorf("invalid log_level: %v", val)
		}
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
