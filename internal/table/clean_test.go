package table

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/edalens/internal/stats"
)

func TestCleanFillsNumericWithMedian(t *testing.T) {
	tb := loadSample(t)
	income := tb.Column("income")
	wantMedian := stats.Median(income.Observed()) // 50000,61000,58000,52000 -> 55000
	if wantMedian != 55000 {
		t.Fatalf("unexpected pre-clean median %v", wantMedian)
	}
	rep := Clean(tb)
	if income.MissingCount() != 0 {
		t.Fatalf("income still has gaps")
	}
	if income.Numbers[1] != wantMedian {
		t.Fatalf("want %v got %v", wantMedian, income.Numbers[1])
	}
	if income.Raw[1] != "55000" {
		t.Fatalf("raw cell not updated: %q", income.Raw[1])
	}
	if rep.Filled() != 4 {
		t.Fatalf("expected 4 filled cells, got %d", rep.Filled())
	}
}

func TestCleanFillsCategoricalWithMode(t *testing.T) {
	tb := loadSample(t)
	Clean(tb)
	if got := tb.Column("city").Raw[3]; got != "Paris" {
		t.Fatalf("city fill: want Paris got %q", got)
	}
	// segment has a=2, b=2: tie resolved by first encountered ("a").
	if got := tb.Column("segment").Raw[2]; got != "a" {
		t.Fatalf("segment fill: want a got %q", got)
	}
	for _, mc := range tb.MissingCounts() {
		if mc.Count != 0 {
			t.Fatalf("column %s still has %d missing", mc.Column, mc.Count)
		}
	}
}

func TestCleanSkipsColumnsWithoutObservations(t *testing.T) {
	tb, err := LoadCSV(strings.NewReader("a,b\n1,\n3,\n"), "gaps.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	rep := Clean(tb)
	if len(rep.Fills) != 1 || !rep.Fills[0].Skipped {
		t.Fatalf("expected one skipped fill, got %+v", rep.Fills)
	}
	if tb.Column("b").MissingCount() != 2 {
		t.Fatalf("empty column should stay missing")
	}
}
