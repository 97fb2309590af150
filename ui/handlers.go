package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"penguinexplorer/app"
	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal/errors"
	"penguinexplorer/internal/export"

	"github.com/gin-gonic/gin"
)

// pageData feeds index.html
type pageData struct {
	Title      string
	Intro      template.HTML
	HasLogo    bool
	ErrorTitle string
	Error      string
	Options    app.WidgetOptions
	Selection  penguin.Selection
	Selected   map[string]bool
	MassMin    string
	MassMax    string
	Columns    []string
	Rows       [][]string
	VM         *app.ViewModel
	ExportCSV  template.URL
	ExportXLSX template.URL
}

func (d *pageData) setError(err error) {
	d.Error = err.Error()
	d.ErrorTitle = errorTitle(err)
}

// errorTitle heads the error panel according to the error code
func errorTitle(err error) string {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return "Invalid filter"
	case errors.CodeDataUnavailable:
		return "Data unavailable"
	case errors.CodeNotFound:
		return "Not found"
	default:
		return "Something went wrong"
	}
}

// requireDataset answers 503 on data routes when the dataset failed to load
func (s *Server) requireDataset(c *gin.Context) {
	if s.loadErr != nil || s.service == nil {
		s.abortWithError(c, s.loadError())
		return
	}
	c.Next()
}

func (s *Server) loadError() error {
	if s.loadErr != nil {
		return s.loadErr
	}
	return errors.DataUnavailable("dataset is not loaded", nil)
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// handleIndex renders the dashboard for the selection in the query string
func (s *Server) handleIndex(c *gin.Context) {
	data := pageData{
		Title:   "Penguin Explorer",
		Intro:   s.intro,
		HasLogo: s.hasLogo,
		Columns: penguin.TableColumns,
	}

	if s.loadErr != nil || s.service == nil {
		data.setError(s.loadError())
		s.renderTemplate(c, http.StatusServiceUnavailable, "index.html", data)
		return
	}

	data.Options = s.service.Options()
	sel, err := parseSelection(c, s.service.DefaultSelection())
	if err != nil {
		data.setError(err)
		data.Selection = s.service.DefaultSelection()
		data.fillWidgets()
		s.renderTemplate(c, errors.HTTPStatus(err), "index.html", data)
		return
	}

	vm, err := s.service.Render(sel)
	if err != nil {
		data.setError(err)
		s.renderTemplate(c, errors.HTTPStatus(err), "index.html", data)
		return
	}

	data.VM = vm
	data.Selection = sel
	query := selectionQuery(sel)
	data.ExportCSV = template.URL("/export.csv?" + query)
	data.ExportXLSX = template.URL("/export.xlsx?" + query)
	data.fillWidgets()
	data.Rows = make([][]string, len(vm.View.Records))
	for i, r := range vm.View.Records {
		row := export.Row(r)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = export.FormatCell(v)
		}
		data.Rows[i] = cells
	}
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

// fillWidgets sets the form state from the selection
func (d *pageData) fillWidgets() {
	d.Selected = make(map[string]bool, len(d.Selection.Islands))
	for _, island := range d.Selection.Islands {
		d.Selected[island] = true
	}
	d.MassMin = strconv.FormatFloat(d.Selection.MassMin, 'f', -1, 64)
	d.MassMax = strconv.FormatFloat(d.Selection.MassMax, 'f', -1, 64)
}

// selectionQuery encodes sel with the same parameters parseSelection reads
func selectionQuery(sel penguin.Selection) string {
	q := url.Values{}
	q.Set(paramSpecies, sel.Species)
	for _, island := range sel.Islands {
		q.Add(paramIsland, island)
	}
	q.Set(paramMassMin, strconv.FormatFloat(sel.MassMin, 'f', -1, 64))
	q.Set(paramMassMax, strconv.FormatFloat(sel.MassMax, 'f', -1, 64))
	return q.Encode()
}

// handleLogo serves the optional header image from disk
func (s *Server) handleLogo(c *gin.Context) {
	if !s.hasLogo {
		s.abortWithError(c, errors.NotFound("logo"))
		return
	}
	c.File(s.logoFile)
}

// handleOptions returns the widget domains
func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"options":  s.service.Options(),
		"defaults": s.service.DefaultSelection(),
	})
}

// handleView returns the full view model
func (s *Server) handleView(c *gin.Context) {
	vm, ok := s.renderFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, vm)
}

// handleScatter returns the scatter figure only
func (s *Server) handleScatter(c *gin.Context) {
	vm, ok := s.renderFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, vm.Scatter)
}

// handlePairs returns the pair grid figure and the pair correlations
func (s *Server) handlePairs(c *gin.Context) {
	vm, ok := s.renderFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"figure":       vm.PairGrid,
		"correlations": vm.Correlations,
	})
}

// handleDescribe returns the measurement profiles of the filtered view
func (s *Server) handleDescribe(c *gin.Context) {
	vm, ok := s.renderFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":  vm.View.Summary,
		"count":    vm.View.Count,
		"profiles": vm.Profiles,
	})
}

func (s *Server) renderFromQuery(c *gin.Context) (*app.ViewModel, bool) {
	sel, err := parseSelection(c, s.service.DefaultSelection())
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	vm, err := s.service.Render(sel)
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	return vm, true
}

func (s *Server) handleExportCSV(c *gin.Context) {
	s.handleExport(c, "csv", export.WriteCSV)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	s.handleExport(c, "xlsx", export.WriteXLSX)
}

func (s *Server) handleExport(c *gin.Context, format string, write func(io.Writer, penguin.FilteredView) error) {
	sel, err := parseSelection(c, s.service.DefaultSelection())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	view, err := s.service.View(sel)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, view); err != nil {
		s.logger.Error("[Export] Failed to write %s: %v", format, err)
		s.abortWithError(c, errors.Wrapf(err, "failed to export %s", format))
		return
	}

	s.observeExport(format)
	filename := fmt.Sprintf("penguins_%s.%s", sel.Species, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentTypes[format], buf.Bytes())
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written page.
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[renderTemplate] Template error for %s: %v", templateName, err)
		s.abortWithError(c, errors.InternalError("template rendering failed"))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
