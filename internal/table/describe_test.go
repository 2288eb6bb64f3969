package table

import (
	"math"
	"strings"
	"testing"
)

func TestDescribeCoversAllColumns(t *testing.T) {
	tb := loadSample(t)
	Clean(tb)
	d := Describe(tb)
	if len(d.Columns) != 4 {
		t.Fatalf("expected 4 described columns, got %d", len(d.Columns))
	}
	age := d.Columns[0]
	if age.Count != 5 || age.Min != 25 || age.Max != 40 {
		t.Fatalf("unexpected age stats: %+v", age)
	}
	if age.Q50 != 33 {
		t.Fatalf("age median: want 33 got %v", age.Q50)
	}
	city := d.Columns[2]
	if city.Top != "Paris" || city.Freq != 3 || city.Unique != 3 {
		t.Fatalf("unexpected city stats: %+v", city)
	}
	if !math.IsNaN(city.Mean) {
		t.Fatalf("categorical mean should be NaN")
	}

	out := d.String()
	for _, want := range []string{"count", "unique", "top", "freq", "mean", "std", "25%", "75%", "max", "Paris", "income"} {
		if !strings.Contains(out, want) {
			t.Fatalf("description missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeNumericOnlyOmitsCategoricalRows(t *testing.T) {
	tb, err := LoadCSV(strings.NewReader("x\n1\n2\n3\n"), "n.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	out := Describe(tb).String()
	if strings.Contains(out, "unique") || strings.Contains(out, "top") {
		t.Fatalf("unexpected categorical rows:\n%s", out)
	}
	if !strings.Contains(out, "mean") {
		t.Fatalf("expected numeric rows:\n%s", out)
	}
}

func TestMissingString(t *testing.T) {
	out := MissingString([]MissingCount{{"age", 0}, {"income", 12}})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if lines[0] != "age        0" || lines[1] != "income    12" {
		t.Fatalf("unexpected layout:\n%s", out)
	}
}
