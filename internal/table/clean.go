package table

import (
	"github.com/KaramelBytes/edalens/internal/stats"
)

// Fill records what imputation did to one column.
type Fill struct {
	Column string
	Kind   Kind
	Count  int
	Value  string
	// Skipped is set when the column had gaps but no observed value to derive a fill from.
	Skipped bool
}

// CleanReport lists the columns that had gaps before cleaning.
type CleanReport struct {
	Fills []Fill
}

// Filled returns the total number of imputed cells.
func (r CleanReport) Filled() int {
	n := 0
	for _, f := range r.Fills {
		if !f.Skipped {
			n += f.Count
		}
	}
	return n
}

// Clean imputes missing cells in place: numeric columns get the median of
// their observed values, categorical columns their most frequent value
// (ties go to the value seen first).
func Clean(t *Table) CleanReport {
	var rep CleanReport
	for _, c := range t.Columns {
		miss := c.MissingCount()
		if miss == 0 {
			continue
		}
		fill := Fill{Column: c.Name, Kind: c.Kind, Count: miss}
		switch c.Kind {
		case Numeric:
			obs := c.Observed()
			if len(obs) == 0 {
				fill.Skipped = true
				break
			}
			med := stats.Median(obs)
			fill.Value = FormatNumber(med)
			for i := range c.Numbers {
				if c.Missing[i] {
					c.Numbers[i] = med
					c.Raw[i] = fill.Value
					c.Missing[i] = false
				}
			}
		case Categorical:
			mode, _, ok := stats.Mode(c.ObservedText())
			if !ok {
				fill.Skipped = true
				break
			}
			fill.Value = mode
			for i := range c.Raw {
				if c.Missing[i] {
					c.Raw[i] = mode
					c.Missing[i] = false
				}
			}
		}
		rep.Fills = append(rep.Fills, fill)
	}
	return rep
}
