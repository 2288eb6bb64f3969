package table

import (
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var sampleRows = []string{
	"age,income,city,segment",
	"25,50000,Paris,a",
	"31,,Berlin,b",
	"NA,61000,Paris,",
	"40,58000,,b",
	"35,52000,Rome,a",
}

func loadSample(t *testing.T) *Table {
	t.Helper()
	tb, err := LoadCSV(strings.NewReader(strings.Join(sampleRows, "\n")), "people.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	return tb
}

func TestLoadCSVInfersKinds(t *testing.T) {
	tb := loadSample(t)
	if tb.Rows != 5 || len(tb.Columns) != 4 {
		t.Fatalf("unexpected shape: rows=%d cols=%d", tb.Rows, len(tb.Columns))
	}
	want := map[string]Kind{"age": Numeric, "income": Numeric, "city": Categorical, "segment": Categorical}
	for name, k := range want {
		c := tb.Column(name)
		if c == nil {
			t.Fatalf("missing column %s", name)
		}
		if c.Kind != k {
			t.Fatalf("column %s: want %s got %s", name, k, c.Kind)
		}
	}
	if got := tb.Column("age").Numbers[2]; !math.IsNaN(got) {
		t.Fatalf("expected NaN for NA cell, got %v", got)
	}
	counts := tb.MissingCounts()
	wantMissing := []int{1, 1, 1, 1}
	for i, mc := range counts {
		if mc.Count != wantMissing[i] {
			t.Fatalf("missing[%s]: want %d got %d", mc.Column, wantMissing[i], mc.Count)
		}
	}
}

func TestLoadCSVPadsShortRowsAndRejectsLongRows(t *testing.T) {
	tb, err := LoadCSV(strings.NewReader("a,b,c\n1,2\n3,4,5\n"), "short.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if !tb.Column("c").Missing[0] {
		t.Fatalf("expected padded cell to be missing")
	}
	if _, err := LoadCSV(strings.NewReader("a,b\n1,2,3\n"), "long.csv", DefaultOptions()); err == nil {
		t.Fatalf("expected error for row wider than header")
	}
}

func TestLoadCSVMalformed(t *testing.T) {
	if _, err := LoadCSV(strings.NewReader("a,b\n\"unterminated,2\n"), "bad.csv", DefaultOptions()); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadCSV(strings.NewReader(""), "empty.csv", DefaultOptions()); err != ErrNoColumns {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{"\ufeffid", "x", "", "x", "x"})
	want := []string{"id", "x", "Unnamed: 2", "x.1", "x.2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header[%d]: want %q got %q", i, want[i], got[i])
		}
	}
}

func TestLoadFileTSVAndMaxRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.tsv")
	if err := os.WriteFile(path, []byte("x\ty\n1\ta\n2\tb\n3\tc\n"), 0o644); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
	tb, err := LoadFile(path, Options{MaxRows: 2})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tb.Rows != 2 || tb.Name != "data.tsv" {
		t.Fatalf("unexpected table: rows=%d name=%s", tb.Rows, tb.Name)
	}
	if tb.Column("x").Kind != Numeric || tb.Column("y").Kind != Categorical {
		t.Fatalf("unexpected kinds")
	}
}

func TestAllMissingColumnIsNumeric(t *testing.T) {
	tb, err := LoadCSV(strings.NewReader("a,b\n1,\n2,\n"), "gaps.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tb.Column("b").Kind != Numeric {
		t.Fatalf("expected empty column to be numeric")
	}
}

func TestHeaderOnlyColumnsAreCategorical(t *testing.T) {
	tb, err := LoadCSV(strings.NewReader("a,b\n"), "header.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tb.Rows != 0 || len(tb.Columns) != 2 {
		t.Fatalf("unexpected shape: rows=%d cols=%d", tb.Rows, len(tb.Columns))
	}
	if n := len(tb.NumericColumns()); n != 0 {
		t.Fatalf("expected no numeric columns, got %d", n)
	}
	out := Describe(tb).String()
	if !strings.Contains(out, "unique") || strings.Contains(out, "mean") {
		t.Fatalf("expected categorical statistics only:\n%s", out)
	}
}

func TestLoadCSVAcceptsBareQuotes(t *testing.T) {
	in := "name,height\nbob,5'10\"\nann,5'4\"\n\"said \"\"hi\"\"\",6'\n"
	tb, err := LoadCSV(strings.NewReader(in), "heights.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	h := tb.Column("height")
	if tb.Rows != 3 || h.Raw[0] != `5'10"` || h.Raw[1] != `5'4"` || h.Raw[2] != `6'` {
		t.Fatalf("unexpected heights: rows=%d %q", tb.Rows, h.Raw)
	}
	if got := tb.Column("name").Raw[2]; got != `said "hi"` {
		t.Fatalf("escaped quotes: got %q", got)
	}
}

func TestLoadCSVUnterminatedQuote(t *testing.T) {
	for _, in := range []string{"a,b\n1,\"open\n2,3\n", "\"a,b\n1,2\n"} {
		_, err := LoadCSV(strings.NewReader(in), "bad.csv", DefaultOptions())
		if !errors.Is(err, csv.ErrQuote) {
			t.Fatalf("%q: expected ErrQuote, got %v", in, err)
		}
	}
}

func TestCategoricalTextKeepsWhitespace(t *testing.T) {
	tb, err := LoadCSV(strings.NewReader("city,n\nParis, 1\n Paris,2\n Paris,\n   ,4\n"), "ws.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	city, n := tb.Column("city"), tb.Column("n")
	if city.Raw[0] != "Paris" || city.Raw[1] != " Paris" {
		t.Fatalf("cell text altered: %q", city.Raw)
	}
	if !city.Missing[3] {
		t.Fatalf("whitespace-only cell should be missing")
	}
	if n.Kind != Numeric || n.Numbers[0] != 1 {
		t.Fatalf("padded number not parsed: kind=%s %v", n.Kind, n.Numbers)
	}
	rep := Clean(tb)
	// " Paris" occurs twice, "Paris" once
	if city.Raw[3] != " Paris" {
		t.Fatalf("mode fill: got %q (report %+v)", city.Raw[3], rep)
	}
}
