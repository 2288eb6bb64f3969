package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// ErrNoColumns is returned when a file has no header row to parse.
var ErrNoColumns = errors.New("no columns to parse from file")

// Options controls how a delimited file is read.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{}
}

// Column is one named column. Raw holds the cell text for every row; for
// numeric columns Numbers holds the parsed value (NaN where missing).
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Numbers []float64
	Missing []bool
}

// Table is an in-memory dataset scoped to a single analysis.
type Table struct {
	Name    string
	Rows    int
	Columns []*Column
}

// LoadFile opens path and loads it by extension (.xlsx or delimited text).
func LoadFile(path string, opt Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return LoadCSV(f, filepath.Base(path), opt)
}

// LoadCSV parses a delimited table whose first row is the header. Rows shorter
// than the header are padded with missing cells; longer rows are an error.
// Bare quotes inside unquoted fields are kept as text; a quoted field left
// open at end of input is an error.
func LoadCSV(r io.Reader, name string, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	qt := newQuoteTracker(r, delim)
	cr := csv.NewReader(qt)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	b := newBuilder(name, header, opt.MaxRows)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if qt.unterminated() {
					return nil, fmt.Errorf("read row %d: EOF inside quoted field: %w", b.rows+1, csv.ErrQuote)
				}
				break
			}
			return nil, fmt.Errorf("read row %d: %w", b.rows+1, err)
		}
		if len(rec) > len(b.cols) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(b.cols), line, len(rec))
		}
		if !b.add(rec) {
			break
		}
	}
	return b.build(), nil
}

// MissingCount pairs a column name with its number of missing cells.
type MissingCount struct {
	Column string
	Count  int
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumns returns the numeric columns in header order.
func (t *Table) NumericColumns() []*Column { return t.byKind(Numeric) }

// CategoricalColumns returns the categorical columns in header order.
func (t *Table) CategoricalColumns() []*Column { return t.byKind(Categorical) }

func (t *Table) byKind(k Kind) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// MissingCounts reports missing cells per column in header order.
func (t *Table) MissingCounts() []MissingCount {
	out := make([]MissingCount, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = MissingCount{Column: c.Name, Count: c.MissingCount()}
	}
	return out
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Observed returns the non-missing numeric values.
func (c *Column) Observed() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// ObservedText returns the non-missing cell text.
func (c *Column) ObservedText() []string {
	out := make([]string, 0, len(c.Raw))
	for i, v := range c.Raw {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// naTokens mirrors the default missing-value markers of common dataframe readers.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a value the way cells are shown in reports.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type builder struct {
	name    string
	cols    []*Column
	rows    int
	maxRows int
}

func newBuilder(name string, header []string, maxRows int) *builder {
	names := normalizeHeader(header)
	cols := make([]*Column, len(names))
	for i, n := range names {
		cols[i] = &Column{Name: n}
	}
	return &builder{name: name, cols: cols, maxRows: maxRows}
}

// add appends one record; it reports false once MaxRows is reached.
func (b *builder) add(rec []string) bool {
	if b.maxRows > 0 && b.rows >= b.maxRows {
		return false
	}
	for j, c := range b.cols {
		v := ""
		if j < len(rec) {
			v = rec[j]
		}
		// cell text is stored as read; trimming applies to NA and number matching only
		miss := isMissing(v)
		if miss {
			v = ""
		}
		c.Raw = append(c.Raw, v)
		c.Missing = append(c.Missing, miss)
	}
	b.rows++
	return true
}

func (b *builder) build() *Table {
	for _, c := range b.cols {
		if b.rows == 0 {
			// a header with no data rows carries no numbers
			c.Kind = Categorical
			continue
		}
		inferKind(c)
	}
	return &Table{Name: b.name, Rows: b.rows, Columns: b.cols}
}

// inferKind marks a column numeric when every observed cell parses as a
// number. A column whose data rows are all missing is numeric as well.
func inferKind(c *Column) {
	nums := make([]float64, len(c.Raw))
	for i, v := range c.Raw {
		if c.Missing[i] {
			nums[i] = math.NaN()
			continue
		}
		f, ok := parseNumber(v)
		if !ok {
			c.Kind = Categorical
			return
		}
		nums[i] = f
	}
	c.Kind = Numeric
	c.Numbers = nums
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
