package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/edalens/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Inference
	Provider            string `mapstructure:"provider" yaml:"provider"`
	Model               string `mapstructure:"model" yaml:"model"`
	OllamaHost          string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OpenAIBaseURL       string `mapstructure:"openai_base_url" yaml:"openai_base_url"`
	OpenAIAPIKey        string `mapstructure:"openai_api_key" yaml:"openai_api_key,omitempty"`
	InferenceTimeoutSec int    `mapstructure:"inference_timeout_sec" yaml:"inference_timeout_sec"`

	// Server
	Addr               string `mapstructure:"addr" yaml:"addr"`
	UploadLimit        string `mapstructure:"upload_limit" yaml:"upload_limit"`
	RequestLogging     bool   `mapstructure:"request_logging" yaml:"request_logging"`
	ArtifactsDir       string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
	ArtifactTTLMinutes int    `mapstructure:"artifact_ttl_minutes" yaml:"artifact_ttl_minutes"`

	// Loading and logging
	MaxRows  int    `mapstructure:"max_rows" yaml:"max_rows"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Keys lists every configuration key in display order.
var Keys = []string{
	"provider", "model", "ollama_host", "openai_base_url", "openai_api_key", "inference_timeout_sec",
	"addr", "upload_limit", "request_logging", "artifacts_dir", "artifact_ttl_minutes",
	"max_rows", "log_level",
}

// InferenceTimeout converts the configured seconds; zero means no timeout.
func (c *Global) InferenceTimeout() time.Duration {
	if c.InferenceTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.InferenceTimeoutSec) * time.Second
}

// ArtifactTTL converts the configured minutes; zero keeps artifacts forever.
func (c *Global) ArtifactTTL() time.Duration {
	if c.ArtifactTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.ArtifactTTLMinutes) * time.Minute
}

// DefaultPath returns ~/.edalens/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edalens", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "ollama")
	v.SetDefault("model", "mistral")
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("openai_base_url", "http://127.0.0.1:1234/v1")
	v.SetDefault("openai_api_key", "")
	// no client-side deadline unless configured
	v.SetDefault("inference_timeout_sec", 0)
	v.SetDefault("addr", "127.0.0.1:7860")
	v.SetDefault("upload_limit", "32M")
	v.SetDefault("request_logging", true)
	v.SetDefault("artifacts_dir", "./artifacts")
	v.SetDefault("artifact_ttl_minutes", 0)
	v.SetDefault("max_rows", 0)
	v.SetDefault("log_level", "info")
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	return load(cfgFile, true)
}

// LoadStored loads only the config file over the defaults, ignoring
// EDALENS_* variables. Use it when the result is written back with Save.
func LoadStored(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, withEnv bool) (*Global, error) {
	v := viper.New()
	if withEnv {
		v.SetEnvPrefix("EDALENS")
		v.AutomaticEnv()
	}
	setDefaults(v)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".edalens"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
