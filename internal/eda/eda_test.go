package eda

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/edalens/internal/ai"
	"github.com/KaramelBytes/edalens/internal/artifacts"
	"github.com/KaramelBytes/edalens/internal/insight"
	"github.com/KaramelBytes/edalens/internal/table"
)

type stubRuntime struct {
	text string
	err  error
}

func (s stubRuntime) Generate(context.Context, ai.GenerateRequest) (*ai.GenerateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: s.text}}}}, nil
}

const sampleCSV = "age,income,city\n25,50000,Paris\n30,,Lyon\n,70000,Paris\n41,65000,\n"

func writeSample(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return p
}

func newAnalyzer(t *testing.T, rt ai.Runtime) *Analyzer {
	t.Helper()
	store, err := artifacts.NewStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return &Analyzer{Summarizer: &insight.Summarizer{Runtime: rt, Model: "mistral"}, Store: store, Width: 320, Height: 240}
}

func TestAnalyzeProducesReportAndPlots(t *testing.T) {
	a := newAnalyzer(t, stubRuntime{text: "Ages cluster around 30."})
	res, err := a.Analyze(context.Background(), writeSample(t, sampleCSV))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Plots) != 3 {
		t.Fatalf("expected 3 plots, got %d", len(res.Plots))
	}
	for _, p := range res.PlotPaths() {
		if filepath.Dir(p) != res.Dir {
			t.Fatalf("plot %s outside run dir %s", p, res.Dir)
		}
	}
	for _, mc := range res.Table.MissingCounts() {
		if mc.Count != 0 {
			t.Fatalf("column %s still has %d missing", mc.Column, mc.Count)
		}
	}
	report := res.Report()
	for _, want := range []string{"Data Loaded Successfully\n\nSummary:\n", "\n\nMissing Values:\n", "\n\nLLM Insights:\nAges cluster around 30."} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if res.Cleaning.Filled() != 3 {
		t.Fatalf("expected 3 filled cells, got %d", res.Cleaning.Filled())
	}
}

func TestAnalyzeRunsAreIsolated(t *testing.T) {
	a := newAnalyzer(t, stubRuntime{text: "ok"})
	path := writeSample(t, sampleCSV)
	r1, err := a.Analyze(context.Background(), path)
	if err != nil {
		t.Fatalf("Analyze 1: %v", err)
	}
	r2, err := a.Analyze(context.Background(), path)
	if err != nil {
		t.Fatalf("Analyze 2: %v", err)
	}
	if r1.Dir == r2.Dir || r1.ID == r2.ID {
		t.Fatalf("runs share a directory: %s", r1.Dir)
	}
}

func TestAnalyzeInferenceFailureEndsRequest(t *testing.T) {
	boom := &ai.UnreachableError{Host: "http://127.0.0.1:11434", Err: errors.New("refused")}
	a := newAnalyzer(t, stubRuntime{err: boom})
	_, err := a.Analyze(context.Background(), writeSample(t, sampleCSV))
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageInsight {
		t.Fatalf("expected insight StageError, got %v", err)
	}
	var ue *ai.UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected wrapped UnreachableError, got %v", err)
	}
	entries, _ := os.ReadDir(a.Store.Root)
	if len(entries) != 0 {
		t.Fatalf("expected failed run dir removed, found %d entries", len(entries))
	}
}

func TestAnalyzeMalformedFile(t *testing.T) {
	a := newAnalyzer(t, stubRuntime{text: "unused"})
	_, err := a.Analyze(context.Background(), writeSample(t, "a,b\n1,\"unterminated\n"))
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageLoad {
		t.Fatalf("expected load StageError, got %v", err)
	}
}

func TestAnalyzeTableWithoutNumericColumns(t *testing.T) {
	a := newAnalyzer(t, stubRuntime{text: "categorical only"})
	tbl, err := table.LoadCSV(strings.NewReader("city\nParis\nLyon\n\n"), "c.csv", table.DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	res, err := a.AnalyzeTable(context.Background(), tbl)
	if err != nil {
		t.Fatalf("AnalyzeTable: %v", err)
	}
	if len(res.Plots) != 0 {
		t.Fatalf("expected no plots, got %d", len(res.Plots))
	}
}
