package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/KaramelBytes/edalens/internal/artifacts"
	"github.com/KaramelBytes/edalens/internal/eda"
	"github.com/KaramelBytes/edalens/internal/plot"
)

// MIMEMsgpack is the content type of msgpack-encoded responses.
const MIMEMsgpack = "application/msgpack"

// Handler serves the EDA pages, the calculator and the JSON API.
type Handler struct {
	analyzer *eda.Analyzer
	store    *artifacts.Store
	version  string
}

// NewHandler creates a new handler instance
func NewHandler(analyzer *eda.Analyzer, store *artifacts.Store, version string) *Handler {
	return &Handler{analyzer: analyzer, store: store, version: version}
}

// MissingEntry is one column's missing-value count.
type MissingEntry struct {
	Column string `json:"column" msgpack:"column"`
	Count  int    `json:"count" msgpack:"count"`
}

// FillEntry reports an imputation applied during cleaning.
type FillEntry struct {
	Column  string `json:"column" msgpack:"column"`
	Kind    string `json:"kind" msgpack:"kind"`
	Count   int    `json:"count" msgpack:"count"`
	Value   string `json:"value,omitempty" msgpack:"value,omitempty"`
	Skipped bool   `json:"skipped,omitempty" msgpack:"skipped,omitempty"`
}

// PlotEntry points at a generated image.
type PlotEntry struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Column string `json:"column,omitempty" msgpack:"column,omitempty"`
	Title  string `json:"title" msgpack:"title"`
	Name   string `json:"name" msgpack:"name"`
	URL    string `json:"url" msgpack:"url"`
}

// AnalyzeResponse is the API payload for one analysis.
type AnalyzeResponse struct {
	ID      string         `json:"id" msgpack:"id"`
	Source  string         `json:"source" msgpack:"source"`
	Rows    int            `json:"rows" msgpack:"rows"`
	Report  string         `json:"report" msgpack:"report"`
	Summary string         `json:"summary" msgpack:"summary"`
	Missing []MissingEntry `json:"missing" msgpack:"missing"`
	Fills   []FillEntry    `json:"fills" msgpack:"fills"`
	Insight string         `json:"insight" msgpack:"insight"`
	Plots   []PlotEntry    `json:"plots" msgpack:"plots"`
}

func newAnalyzeResponse(res *eda.Result) *AnalyzeResponse {
	out := &AnalyzeResponse{
		ID:      res.ID,
		Source:  res.Source,
		Rows:    res.Table.Rows,
		Report:  res.Report(),
		Summary: res.Summary.DescriptionText(),
		Insight: res.Summary.Insight,
		Missing: make([]MissingEntry, 0, len(res.Summary.Missing)),
		Fills:   make([]FillEntry, 0, len(res.Cleaning.Fills)),
		Plots:   make([]PlotEntry, 0, len(res.Plots)),
	}
	for _, m := range res.Summary.Missing {
		out.Missing = append(out.Missing, MissingEntry{Column: m.Column, Count: m.Count})
	}
	for _, f := range res.Cleaning.Fills {
		out.Fills = append(out.Fills, FillEntry{Column: f.Column, Kind: string(f.Kind), Count: f.Count, Value: f.Value, Skipped: f.Skipped})
	}
	for _, p := range res.Plots {
		out.Plots = append(out.Plots, plotEntry(res.ID, p))
	}
	return out
}

func plotEntry(id string, a plot.Artifact) PlotEntry {
	return PlotEntry{
		Kind:   a.Kind,
		Column: a.Column,
		Title:  a.Title,
		Name:   a.Name,
		URL:    "/artifacts/" + id + "/" + a.Name,
	}
}

// analyzeUpload stores the multipart "file" field in a temp file, keeping
// its extension so the loader can pick the format, and runs the pipeline.
func (h *Handler) analyzeUpload(c echo.Context) (*eda.Result, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, NewValidationError("file")
	}
	src, err := fh.Open()
	if err != nil {
		return nil, NewBadRequestError("cannot read upload", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	tmp, err := os.CreateTemp("", "edalens-upload-*"+ext)
	if err != nil {
		return nil, NewInternalError("failed to stage upload", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, NewInternalError("failed to stage upload", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, NewInternalError("failed to stage upload", err)
	}

	res, err := h.analyzer.AnalyzeAs(c.Request().Context(), tmp.Name(), filepath.Base(fh.Filename))
	if err != nil {
		return nil, pipelineError(err)
	}
	return res, nil
}

// HandleIndex renders the upload form
func (h *Handler) HandleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index", pageData{Title: "EDA", Active: "eda", Version: h.version})
}

// HandleAnalyzeForm runs an analysis from the upload form and renders the report page
func (h *Handler) HandleAnalyzeForm(c echo.Context) error {
	res, err := h.analyzeUpload(c)
	if err != nil {
		return err
	}
	resp := newAnalyzeResponse(res)
	insightHTML, err := markdownHTML(res.Summary.Insight)
	if err != nil {
		return NewInternalError("failed to render insights", err)
	}
	return c.Render(http.StatusOK, "index", pageData{
		Title:       "EDA Report",
		Active:      "eda",
		Version:     h.version,
		Result:      resp,
		Report:      resp.Report,
		InsightHTML: insightHTML,
	})
}

// HandleAnalyzeAPI runs an analysis and returns JSON, or msgpack when the
// client accepts application/msgpack
func (h *Handler) HandleAnalyzeAPI(c echo.Context) error {
	res, err := h.analyzeUpload(c)
	if err != nil {
		return err
	}
	resp := newAnalyzeResponse(res)
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEMsgpack) {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, MIMEMsgpack, data)
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleArtifact serves a generated image
func (h *Handler) HandleArtifact(c echo.Context) error {
	id, file := c.Param("id"), c.Param("file")
	p, err := h.store.Path(id, file)
	if err != nil {
		return NewNotFoundError("artifact", id+"/"+file)
	}
	return c.File(p)
}

// HandleHealth returns server health status
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	})
}
