package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edalens/internal/stats"
)

// ColumnStats is the descriptive summary of one column. Fields that do not
// apply to the column's kind are NaN (or empty for Top).
type ColumnStats struct {
	Name  string
	Kind  Kind
	Count int
	// categorical
	Unique int
	Top    string
	Freq   int
	// numeric
	Mean, Std, Min, Q25, Q50, Q75, Max float64
}

// Description summarizes every column of a table regardless of kind.
type Description struct {
	Columns []ColumnStats
}

// Describe computes count, unique, top and frequency for categorical columns
// and count, mean, std, min, quartiles and max for numeric columns.
func Describe(t *Table) *Description {
	d := &Description{Columns: make([]ColumnStats, 0, len(t.Columns))}
	nan := math.NaN()
	for _, c := range t.Columns {
		s := ColumnStats{Name: c.Name, Kind: c.Kind, Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
		switch c.Kind {
		case Numeric:
			obs := c.Observed()
			s.Count = len(obs)
			if len(obs) > 0 {
				sorted := stats.Sorted(obs)
				s.Mean = stats.Mean(obs)
				s.Std = stats.StdDev(obs)
				s.Min = sorted[0]
				s.Q25 = stats.Quantile(sorted, 0.25)
				s.Q50 = stats.Quantile(sorted, 0.5)
				s.Q75 = stats.Quantile(sorted, 0.75)
				s.Max = sorted[len(sorted)-1]
			}
		case Categorical:
			obs := c.ObservedText()
			s.Count = len(obs)
			s.Unique = stats.Unique(obs)
			s.Top, s.Freq, _ = stats.Mode(obs)
		}
		d.Columns = append(d.Columns, s)
	}
	return d
}

type statRow struct {
	label string
	cell  func(ColumnStats) string
}

var categoricalRows = []statRow{
	{"unique", func(s ColumnStats) string {
		if s.Kind != Categorical {
			return "NaN"
		}
		return strconv.Itoa(s.Unique)
	}},
	{"top", func(s ColumnStats) string {
		if s.Kind != Categorical || s.Count == 0 {
			return "NaN"
		}
		return s.Top
	}},
	{"freq", func(s ColumnStats) string {
		if s.Kind != Categorical || s.Count == 0 {
			return "NaN"
		}
		return strconv.Itoa(s.Freq)
	}},
}

var numericRows = []statRow{
	{"mean", func(s ColumnStats) string { return formatStat(s.Mean) }},
	{"std", func(s ColumnStats) string { return formatStat(s.Std) }},
	{"min", func(s ColumnStats) string { return formatStat(s.Min) }},
	{"25%", func(s ColumnStats) string { return formatStat(s.Q25) }},
	{"50%", func(s ColumnStats) string { return formatStat(s.Q50) }},
	{"75%", func(s ColumnStats) string { return formatStat(s.Q75) }},
	{"max", func(s ColumnStats) string { return formatStat(s.Max) }},
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// String renders the description as a fixed-width table with one column per
// dataset column and one row per statistic. Statistic groups that apply to no
// column are omitted.
func (d *Description) String() string {
	if len(d.Columns) == 0 {
		return "Empty DataFrame"
	}
	var hasNum, hasCat bool
	for _, c := range d.Columns {
		switch c.Kind {
		case Numeric:
			hasNum = true
		case Categorical:
			hasCat = true
		}
	}
	rows := []statRow{{"count", func(s ColumnStats) string { return strconv.Itoa(s.Count) }}}
	if hasCat {
		rows = append(rows, categoricalRows...)
	}
	if hasNum {
		rows = append(rows, numericRows...)
	}

	cells := make([][]string, len(rows))
	labelW := 0
	for i, r := range rows {
		if len(r.label) > labelW {
			labelW = len(r.label)
		}
		cells[i] = make([]string, len(d.Columns))
		for j, c := range d.Columns {
			cells[i][j] = safeCell(r.cell(c))
		}
	}
	widths := make([]int, len(d.Columns))
	for j, c := range d.Columns {
		widths[j] = len(safeCell(c.Name))
		for i := range rows {
			if w := len(cells[i][j]); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelW))
	for j, c := range d.Columns {
		fmt.Fprintf(&b, "  %*s", widths[j], safeCell(c.Name))
	}
	b.WriteString("\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "%-*s", labelW, r.label)
		for j := range d.Columns {
			fmt.Fprintf(&b, "  %*s", widths[j], cells[i][j])
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// MissingString renders per-column missing counts, one column per line.
func MissingString(counts []MissingCount) string {
	if len(counts) == 0 {
		return "Series([], )"
	}
	nameW, numW := 0, 0
	for _, c := range counts {
		if n := len(safeCell(c.Column)); n > nameW {
			nameW = n
		}
		if n := len(strconv.Itoa(c.Count)); n > numW {
			numW = n
		}
	}
	lines := make([]string, len(counts))
	for i, c := range counts {
		lines[i] = fmt.Sprintf("%-*s    %*d", nameW, safeCell(c.Column), numW, c.Count)
	}
	return strings.Join(lines, "\n")
}

func safeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
}
