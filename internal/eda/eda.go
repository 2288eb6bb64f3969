// Package eda runs the load, clean, summarize and plot pipeline for one file.
package eda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/edalens/internal/artifacts"
	"github.com/KaramelBytes/edalens/internal/insight"
	"github.com/KaramelBytes/edalens/internal/plot"
	"github.com/KaramelBytes/edalens/internal/table"
)

// Pipeline stages, used to label failures.
const (
	StageLoad    = "load"
	StageInsight = "insight"
	StagePlot    = "plot"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Analyzer wires the pipeline stages together. Plot geometry fields are
// optional; zero values use the renderer defaults.
type Analyzer struct {
	Summarizer *insight.Summarizer
	Store      *artifacts.Store
	Options    table.Options
	Bins       int
	Width      int
	Height     int
}

// Result is everything produced for one analysis.
type Result struct {
	ID       string
	Dir      string
	Source   string
	Table    *table.Table
	Cleaning table.CleanReport
	Summary  *insight.Summary
	Plots    []plot.Artifact
	Took     time.Duration
}

// Analyze loads path and runs the pipeline on it.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Result, error) {
	return a.AnalyzeAs(ctx, path, "")
}

// AnalyzeAs is Analyze with the table named name instead of the file's base
// name, for uploads stored under a temporary path.
func (a *Analyzer) AnalyzeAs(ctx context.Context, path, name string) (*Result, error) {
	t, err := table.LoadFile(path, a.Options)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}
	if name != "" {
		t.Name = name
	}
	return a.AnalyzeTable(ctx, t)
}

// AnalyzeTable cleans t in place, then summarizes and renders it
// concurrently into a fresh run directory. Any stage failure ends the
// analysis and removes the run directory.
func (a *Analyzer) AnalyzeTable(ctx context.Context, t *table.Table) (*Result, error) {
	start := time.Now()
	rep := table.Clean(t)
	id, dir, err := a.Store.NewRun()
	if err != nil {
		return nil, &StageError{Stage: StagePlot, Err: err}
	}
	logger := log.With().Str("run", id).Str("source", t.Name).Logger()
	logger.Debug().Int("rows", t.Rows).Int("columns", len(t.Columns)).Int("filled", rep.Filled()).Msg("table cleaned")

	summarizer := a.Summarizer
	if summarizer == nil {
		summarizer = &insight.Summarizer{}
	}
	renderer := &plot.Renderer{Dir: dir, Bins: a.Bins, Width: a.Width, Height: a.Height}

	res := &Result{ID: id, Dir: dir, Source: t.Name, Table: t, Cleaning: rep}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := summarizer.Summarize(gctx, t)
		if err != nil {
			return &StageError{Stage: StageInsight, Err: err}
		}
		res.Summary = sum
		return nil
	})
	g.Go(func() error {
		arts, err := renderer.Render(t)
		if err != nil {
			return &StageError{Stage: StagePlot, Err: err}
		}
		res.Plots = arts
		return nil
	})
	if err := g.Wait(); err != nil {
		if rmErr := a.Store.Remove(id); rmErr != nil {
			logger.Warn().Err(rmErr).Msg("remove failed run")
		}
		return nil, err
	}
	res.Took = time.Since(start)
	logger.Info().Int("plots", len(res.Plots)).Dur("took", res.Took).Msg("analysis complete")
	return res, nil
}

// Report renders the combined text report.
func (r *Result) Report() string {
	var b strings.Builder
	b.WriteString("Data Loaded Successfully\n\n")
	fmt.Fprintf(&b, "Summary:\n%s\n\n", r.Summary.DescriptionText())
	fmt.Fprintf(&b, "Missing Values:\n%s\n\n", r.Summary.MissingText())
	fmt.Fprintf(&b, "LLM Insights:\n%s", r.Summary.Insight)
	return b.String()
}

// PlotPaths returns the image paths in render order.
func (r *Result) PlotPaths() []string { return plot.Paths(r.Plots) }
