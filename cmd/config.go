package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/edalens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edalens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "provider: %s\n", cfg.Provider)
		fmt.Fprintf(w, "model: %s\n", cfg.Model)
		fmt.Fprintf(w, "ollama_host: %s\n", cfg.OllamaHost)
		fmt.Fprintf(w, "openai_base_url: %s\n", cfg.OpenAIBaseURL)
		if cfg.OpenAIAPIKey != "" {
			fmt.Fprintf(w, "openai_api_key: %s\n", mask(cfg.OpenAIAPIKey))
		}
		fmt.Fprintf(w, "inference_timeout_sec: %d\n", cfg.InferenceTimeoutSec)
		fmt.Fprintf(w, "addr: %s\n", cfg.Addr)
		fmt.Fprintf(w, "upload_limit: %s\n", cfg.UploadLimit)
		fmt.Fprintf(w, "request_logging: %t\n", cfg.RequestLogging)
		fmt.Fprintf(w, "artifacts_dir: %s\n", cfg.ArtifactsDir)
		fmt.Fprintf(w, "artifact_ttl_minutes: %d\n", cfg.ArtifactTTLMinutes)
		fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Set a config value and save to disk",
	Args:      cobra.ExactArgs(2),
	ValidArgs: cfgpkg.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// start from the stored file so flag and env overrides are not persisted
		stored, err := cfgpkg.LoadStored(cfgFile)
		if err != nil {
			return err
		}
		if err := cfgpkg.Set(stored, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(stored, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
