package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edalens/internal/artifacts"
	cfgpkg "github.com/KaramelBytes/edalens/internal/config"
	"github.com/KaramelBytes/edalens/internal/eda"
	"github.com/KaramelBytes/edalens/internal/insight"
	"github.com/KaramelBytes/edalens/internal/table"
	"github.com/KaramelBytes/edalens/internal/utils"
)

var (
	anaOutDir     string
	anaNoInsights bool
	anaJSON       bool
	anaDelimiter  string
	anaMaxRows    int
	anaBins       int
)

// analyzeOutput is the --json shape of an offline analysis.
type analyzeOutput struct {
	ID      string   `json:"id"`
	Source  string   `json:"source"`
	Dir     string   `json:"dir"`
	Report  string   `json:"report"`
	Insight string   `json:"insight"`
	Filled  int      `json:"filled"`
	Plots   []string `json:"plots"`
	TookMs  int64    `json:"took_ms"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Clean, summarize and plot a CSV/TSV/XLSX file",
	Example: `  edalens analyze data.csv
  edalens analyze data.csv --no-insights --out ./plots
  edalens analyze data.tsv --provider openai --model qwen2.5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input: %w", err)
		}

		opts := table.DefaultOptions()
		opts.MaxRows = c.MaxRows
		if cmd.Flags().Changed("max-rows") {
			opts.MaxRows = anaMaxRows
		}
		if anaDelimiter != "" {
			d, err := parseDelimiter(anaDelimiter)
			if err != nil {
				return err
			}
			opts.Delimiter = d
		}

		out := c.ArtifactsDir
		if anaOutDir != "" {
			out = anaOutDir
		}
		store, err := artifacts.NewStore(out)
		if err != nil {
			return err
		}
		analyzer, err := newAnalyzer(c, store, !anaNoInsights)
		if err != nil {
			return err
		}
		analyzer.Options = opts
		analyzer.Bins = anaBins

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
		defer stop()
		res, err := analyzer.Analyze(ctx, path)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if anaJSON {
			b, err := utils.PrettyJSON(analyzeOutput{
				ID:      res.ID,
				Source:  res.Source,
				Dir:     res.Dir,
				Report:  res.Report(),
				Insight: res.Summary.Insight,
				Filled:  res.Cleaning.Filled(),
				Plots:   res.PlotPaths(),
				TookMs:  res.Took.Milliseconds(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}

		fmt.Fprintln(w, res.Report())
		fmt.Fprintln(w)
		if len(res.Plots) == 0 {
			fmt.Fprintln(w, "⚠ No numeric columns; no plots rendered")
		} else {
			fmt.Fprintf(w, "✓ Rendered %d plot(s) to %s\n", len(res.Plots), res.Dir)
			for _, p := range res.PlotPaths() {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutDir, "out", "o", "", "artifacts directory (default from config)")
	analyzeCmd.Flags().BoolVar(&anaNoInsights, "no-insights", false, "skip the model call and leave insights empty")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the result as JSON")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to process (0 = unlimited, overrides config)")
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 0, "histogram bins (0 = 30)")
}

// newAnalyzer wires the pipeline from configuration. With insights disabled
// the summarizer has no runtime and leaves the insight text empty.
func newAnalyzer(c *cfgpkg.Global, store *artifacts.Store, insights bool) (*eda.Analyzer, error) {
	s := &insight.Summarizer{Model: c.Model}
	if insights {
		rt, err := newRuntime(c)
		if err != nil {
			return nil, err
		}
		s.Runtime = rt
	}
	opts := table.DefaultOptions()
	opts.MaxRows = c.MaxRows
	return &eda.Analyzer{Summarizer: s, Store: store, Options: opts}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "tab", "\\t", "\t":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("invalid delimiter %q (use ',', ';', 'tab' or '|')", s)
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
