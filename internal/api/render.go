package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/KaramelBytes/edalens/internal/calculator"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the view model shared by every page template.
type pageData struct {
	Title   string
	Active  string
	Version string
	Error   *APIError

	// EDA results
	Result      *AnalyzeResponse
	Report      string
	InsightHTML template.HTML

	// Calculator
	Ops       []calculator.Op
	Num1      string
	Num2      string
	Operation string
	CalcOut   string
}

type templateRenderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (echo.Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &templateRenderer{templates: t}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// markdownHTML converts model output to HTML. Raw HTML in the input is
// dropped by the renderer.
func markdownHTML(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
