// Package plot renders the distribution and correlation images for a table.
package plot

import (
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/edalens/internal/table"
	"github.com/KaramelBytes/edalens/internal/utils"
)

// Default image geometry and bin count.
const (
	DefaultBins   = 30
	DefaultWidth  = 600
	DefaultHeight = 400
)

// HeatmapFile is the file name of the correlation heatmap.
const HeatmapFile = "correlation_heatmap.png"

// Artifact kinds.
const (
	KindHistogram = "histogram"
	KindHeatmap   = "heatmap"
)

// Artifact describes one rendered image.
type Artifact struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Column string `json:"column,omitempty" msgpack:"column,omitempty"`
	Title  string `json:"title" msgpack:"title"`
	Name   string `json:"name" msgpack:"name"`
	Path   string `json:"path" msgpack:"path"`
}

// Renderer writes PNG files into Dir. Zero fields fall back to the defaults.
type Renderer struct {
	Dir    string
	Bins   int
	Width  int
	Height int
}

func (r *Renderer) bins() int {
	if r.Bins > 0 {
		return r.Bins
	}
	return DefaultBins
}

func (r *Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Render draws one histogram per numeric column, in header order, followed by
// a correlation heatmap when at least one numeric column exists. A table with
// no numeric columns produces no files.
func (r *Renderer) Render(t *table.Table) ([]Artifact, error) {
	nums := t.NumericColumns()
	if len(nums) == 0 {
		return nil, nil
	}
	if err := utils.EnsureDir(r.Dir); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}

	names := distributionNames(nums)
	out := make([]Artifact, len(nums)+1)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range nums {
		i, c := i, c
		out[i] = Artifact{
			Kind:   KindHistogram,
			Column: c.Name,
			Title:  "Distribution of " + c.Name,
			Name:   names[i],
			Path:   filepath.Join(r.Dir, names[i]),
		}
		g.Go(func() error {
			if err := r.histogram(out[i].Path, out[i].Title, c.Name, c.Observed()); err != nil {
				return fmt.Errorf("histogram %q: %w", c.Name, err)
			}
			return nil
		})
	}
	hm := Artifact{Kind: KindHeatmap, Title: "Correlation Heatmap", Name: HeatmapFile, Path: filepath.Join(r.Dir, HeatmapFile)}
	out[len(nums)] = hm
	g.Go(func() error {
		if err := r.heatmap(hm.Path, hm.Title, nums); err != nil {
			return fmt.Errorf("heatmap: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Paths returns the file paths of the given artifacts in order.
func Paths(arts []Artifact) []string {
	out := make([]string, len(arts))
	for i, a := range arts {
		out[i] = a.Path
	}
	return out
}

// distributionNames maps columns to "<name>_distribution.png". Names that
// collide after sanitizing get "_2", "_3"... suffixes.
func distributionNames(cols []*table.Column) []string {
	used := make(map[string]bool, len(cols))
	out := make([]string, len(cols))
	for i, c := range cols {
		base := utils.SanitizeFileName(c.Name)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		out[i] = name + "_distribution.png"
	}
	return out
}
