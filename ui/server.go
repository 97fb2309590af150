package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"penguinexplorer/app"
	"penguinexplorer/internal"
	"penguinexplorer/internal/export"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static content/*.md
var embeddedFiles embed.FS

// ExportObserver is told about every download
type ExportObserver interface {
	ObserveExport(format string)
}

// Server represents the web server for the Penguin Explorer UI
type Server struct {
	router        *gin.Engine
	templates     *template.Template
	embeddedFiles fs.FS
	logger        *internal.Logger

	service  *app.DashboardService
	loadErr  error
	exports  ExportObserver
	logoFile string
	hasLogo  bool
	intro    template.HTML
}

// NewServer creates a new web server instance over the embedded templates
// and assets. The router is in the mode set by gin.SetMode.
func NewServer(logger *internal.Logger) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	return &Server{
		router:        router,
		embeddedFiles: embeddedFiles,
		logger:        logger,
	}
}

// Initialize sets up the server with dependencies. Exactly one of service and
// loadErr is expected to be set: with loadErr every data route answers 503.
func (s *Server) Initialize(service *app.DashboardService, loadErr error, exports ExportObserver, logoFile string) error {
	if service == nil && loadErr == nil {
		return fmt.Errorf("either a dashboard service or a load error is required")
	}
	s.service = service
	s.loadErr = loadErr
	s.exports = exports
	s.logoFile = logoFile
	if logoFile != "" {
		if info, err := os.Stat(logoFile); err == nil && !info.IsDir() {
			s.hasLogo = true
		} else {
			s.logger.Info("[Server] Logo %s not found, header renders without it", logoFile)
		}
	}

	intro, err := fs.ReadFile(s.embeddedFiles, "content/intro.md")
	if err != nil {
		return fmt.Errorf("failed to read intro text: %w", err)
	}
	s.intro = renderMarkdown(intro)

	if err := s.parseTemplates(); err != nil {
		return err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
	}

	templatesFS, err := fs.Sub(s.embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.logger.Debug("[TemplateInit] Parsed templates: %s", s.templates.DefinedTemplates())
	return nil
}

// setupMiddleware serves the embedded static assets
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(s.embeddedFiles, "static")
	if err != nil {
		s.logger.Error("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/logo", s.handleLogo)

	api := s.router.Group("/api")
	api.Use(s.requireDataset)
	api.GET("/options", s.handleOptions)
	api.GET("/view", s.handleView)
	api.GET("/figures/scatter", s.handleScatter)
	api.GET("/figures/pairs", s.handlePairs)
	api.GET("/describe", s.handleDescribe)

	s.router.GET("/export.csv", s.requireDataset, s.handleExportCSV)
	s.router.GET("/export.xlsx", s.requireDataset, s.handleExportXLSX)
}

// Handler returns the router for use in an http.Server or in tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router in a server listening on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) observeExport(format string) {
	if s.exports != nil {
		s.exports.ObserveExport(format)
	}
}

// contentTypes of the downloads, by format
var contentTypes = map[string]string{
	"csv":  export.ContentTypeCSV,
	"xlsx": export.ContentTypeXLSX,
}
