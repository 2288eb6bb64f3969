package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edalens/internal/ai"
	cfgpkg "github.com/KaramelBytes/edalens/internal/config"
	"github.com/KaramelBytes/edalens/internal/logging"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	debug   bool
	// Inference flags (override config if set)
	flagProvider       string
	flagModel          string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "edalens",
	Short: "edalens: exploratory data analysis for CSV files with LLM insights",
	Long: `edalens loads a CSV (or XLSX) file, fills missing values, describes every column,
asks a local language model for insights and renders distribution and correlation plots.
Run it as a web UI (serve) or offline against a single file (analyze).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edalens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "inference provider: ollama | openai (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "inference timeout in seconds, 0 = none (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		logging.Setup("info", debug, nil)
		cfg = nil
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("provider") && flagProvider != "" {
		if err := cfgpkg.Set(cfg, "provider", flagProvider); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
	}
	if f.Changed("model") && flagModel != "" {
		cfg.Model = flagModel
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec >= 0 {
		cfg.InferenceTimeoutSec = flagHTTPTimeoutSec
	}
	lvl := logging.Setup(cfg.LogLevel, debug, nil)
	log.Debug().Str("level", lvl.String()).Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("config loaded")
}

// requireConfig returns the loaded configuration or an error when loading failed.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded (check --config or ~/.edalens/config.yaml)")
	}
	return cfg, nil
}

// newRuntime builds the inference runtime selected by c.
func newRuntime(c *cfgpkg.Global) (ai.Runtime, error) {
	return ai.MustRuntime(c.Provider, ai.RuntimeConfig{
		HTTPTimeout: c.InferenceTimeout(),
		Host:        c.OllamaHost,
		BaseURL:     c.OpenAIBaseURL,
		APIKey:      c.OpenAIAPIKey,
	})
}
