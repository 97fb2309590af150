package app

import (
	"math"
	"time"

	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal"
	"penguinexplorer/internal/charts"
	"penguinexplorer/internal/profiling"

	"github.com/google/uuid"
)

// WidgetOptions are the domains the three controls are built from
type WidgetOptions struct {
	Species []string `json:"species"`
	Islands []string `json:"islands"`
	MassMin int      `json:"mass_min"`
	MassMax int      `json:"mass_max"`
}

// ViewModel is everything one page render needs
type ViewModel struct {
	RenderID     string               `json:"render_id"`
	Selection    penguin.Selection    `json:"selection"`
	Options      WidgetOptions        `json:"options"`
	View         penguin.FilteredView `json:"view"`
	Scatter      charts.Figure        `json:"scatter"`
	PairGrid     charts.Figure        `json:"pair_grid"`
	Correlations []charts.Correlation `json:"correlations"`
	Profiles     []profiling.Profile  `json:"profiles"`
}

// Options derives the widget domains from the dataset. The slider bounds are
// whole grams wide enough to include the observed extremes.
func Options(ds *penguin.Dataset) WidgetOptions {
	min, max := ds.MassBounds()
	opts := WidgetOptions{
		Species: ds.Species(),
		Islands: ds.Islands(),
	}
	if !math.IsNaN(min) {
		opts.MassMin = int(math.Floor(min))
		opts.MassMax = int(math.Ceil(max))
	}
	return opts
}

// Render filters ds with sel and builds the table, count, summary, chart
// inputs and measurement profiles. It has no side effects; RenderID is left for the caller.
func Render(ds *penguin.Dataset, sel penguin.Selection) ViewModel {
	view := penguin.Filter(ds, sel)
	builder := charts.NewBuilder(ds.Species())
	return ViewModel{
		Selection:    sel,
		Options:      Options(ds),
		View:         view,
		Scatter:      builder.Scatter(view),
		PairGrid:     builder.PairGrid(view),
		Correlations: charts.Correlations(view),
		Profiles:     profiling.Describe(view.Records),
	}
}

// OtherSpeciesLabel replaces species outside the dataset when a render is
// reported, so crafted query values cannot grow the metric label set.
const OtherSpeciesLabel = "other"

// RenderObserver receives one call per render
type RenderObserver interface {
	ObserveRender(species string, records int, err error)
}

// DashboardService renders the dashboard for the dataset it was built with
type DashboardService struct {
	dataset  *penguin.Dataset
	known    map[string]bool
	logger   *internal.Logger
	observer RenderObserver
}

// NewDashboardService creates a service over a loaded dataset. observer may
// be nil.
func NewDashboardService(ds *penguin.Dataset, logger *internal.Logger, observer RenderObserver) *DashboardService {
	known := make(map[string]bool)
	for _, species := range ds.Species() {
		known[species] = true
	}
	return &DashboardService{dataset: ds, known: known, logger: logger, observer: observer}
}

// DefaultSelection is the selection before the user touches a widget
func (s *DashboardService) DefaultSelection() penguin.Selection {
	return penguin.DefaultSelection(s.dataset)
}

// Options returns the widget domains
func (s *DashboardService) Options() WidgetOptions {
	return Options(s.dataset)
}

// Render validates sel and renders the dashboard for it
func (s *DashboardService) Render(sel penguin.Selection) (*ViewModel, error) {
	start := time.Now()
	if err := sel.Validate(); err != nil {
		s.logger.Warn("[Dashboard] Rejected selection %+v: %v", sel, err)
		s.observe(sel.Species, 0, err)
		return nil, err
	}

	vm := Render(s.dataset, sel)
	vm.RenderID = uuid.NewString()

	s.logger.Debug("[Dashboard] render=%s species=%s islands=%v mass=[%g,%g] records=%d in %s",
		vm.RenderID, sel.Species, sel.Islands, sel.MassMin, sel.MassMax, vm.View.Count, time.Since(start))
	s.observe(sel.Species, vm.View.Count, nil)
	return &vm, nil
}

// View filters without building charts, for exports and the CLI
func (s *DashboardService) View(sel penguin.Selection) (penguin.FilteredView, error) {
	if err := sel.Validate(); err != nil {
		return penguin.FilteredView{}, err
	}
	return penguin.Filter(s.dataset, sel), nil
}

func (s *DashboardService) observe(species string, records int, err error) {
	if s.observer != nil {
		if !s.known[species] {
			species = OtherSpeciesLabel
		}
		s.observer.ObserveRender(species, records, err)
	}
}
