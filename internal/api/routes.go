package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/KaramelBytes/edalens/internal/artifacts"
	"github.com/KaramelBytes/edalens/internal/eda"
)

// Options configures the HTTP server.
type Options struct {
	Analyzer       *eda.Analyzer
	Store          *artifacts.Store
	Version        string
	UploadLimit    string
	RequestLogging bool
}

// New builds the echo instance with middleware and every route registered.
func New(opts Options) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if opts.RequestLogging {
		e.Use(RequestLogger(func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/api/health" || strings.HasPrefix(p, "/artifacts/")
		}))
	}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
	if opts.UploadLimit != "" {
		e.Use(middleware.BodyLimit(opts.UploadLimit))
	}

	h := NewHandler(opts.Analyzer, opts.Store, opts.Version)
	h.Register(e)
	return e, nil
}

// Register attaches the UI, API and artifact routes.
func (h *Handler) Register(e *echo.Echo) {
	// Web UI
	e.GET("/", h.HandleIndex)
	e.POST("/analyze", h.HandleAnalyzeForm)
	e.GET("/calculator", h.HandleCalculatorPage)
	e.POST("/calculator", h.HandleCalculatorForm)

	// Generated images
	e.GET("/artifacts/:id/:file", h.HandleArtifact)

	// API Routes
	apiGroup := e.Group("/api")
	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.POST("/analyze", h.HandleAnalyzeAPI)
	apiGroup.POST("/calculate", h.HandleCalculateAPI)
}
