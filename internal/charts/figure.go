// Package charts translates a filtered view into Plotly figure JSON. The
// browser draws the figures with plotly.js; nothing is rasterised here.
package charts

import "penguinexplorer/domain/penguin"

// Figure is a Plotly figure: traces plus layout
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace covers the fields used by the scatter and splom traces
type Trace struct {
	Type          string      `json:"type"`
	Mode          string      `json:"mode,omitempty"`
	Name          string      `json:"name"`
	LegendGroup   string      `json:"legendgroup,omitempty"`
	ShowLegend    *bool       `json:"showlegend,omitempty"`
	X             []*float64  `json:"x,omitempty"`
	Y             []*float64  `json:"y,omitempty"`
	CustomData    [][]string  `json:"customdata,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	Marker        Marker      `json:"marker"`
	Dimensions    []Dimension `json:"dimensions,omitempty"`
	Diagonal      *Diagonal   `json:"diagonal,omitempty"`
	ShowUpperHalf *bool       `json:"showupperhalf,omitempty"`
}

// Marker styles the points of a trace
type Marker struct {
	Color    string      `json:"color"`
	Size     interface{} `json:"size,omitempty"`
	SizeMode string      `json:"sizemode,omitempty"`
	SizeRef  float64     `json:"sizeref,omitempty"`
	SizeMin  float64     `json:"sizemin,omitempty"`
	Opacity  float64     `json:"opacity,omitempty"`
	Line     *MarkerLine `json:"line,omitempty"`
}

// MarkerLine outlines markers
type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Dimension is one axis of a scatter-matrix
type Dimension struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// Diagonal toggles the splom diagonal
type Diagonal struct {
	Visible bool `json:"visible"`
}

// Layout is the subset of Plotly layout options the dashboard sets
type Layout struct {
	Title       Title        `json:"title"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Height      int          `json:"height,omitempty"`
	DragMode    string       `json:"dragmode,omitempty"`
	HoverMode   string       `json:"hovermode,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Title of a figure or axis
type Title struct {
	Text string `json:"text"`
}

// Axis labels a cartesian axis
type Axis struct {
	Title Title `json:"title"`
}

// Legend titles the legend
type Legend struct {
	Title Title `json:"title"`
}

// Annotation is a free text annotation, used for the empty-view message
type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// palette is seaborn's "bright" palette, assigned to species by their order
// in the dataset so a species keeps its colour across selections.
var palette = []string{
	"#023eff", "#ff7c00", "#1ac938", "#e8000b", "#8b2be2",
	"#9f4800", "#f14cc1", "#a3a3a3", "#ffc400", "#00d7ff",
}

// Builder makes figures with a colour assignment fixed by species order
type Builder struct {
	colors map[string]string
	order  []string
}

// NewBuilder assigns palette colours to species in the given order
func NewBuilder(species []string) *Builder {
	b := &Builder{colors: make(map[string]string, len(species))}
	for i, s := range species {
		b.colors[s] = palette[i%len(palette)]
		b.order = append(b.order, s)
	}
	return b
}

// Color returns the colour of a species; unknown species get the grey entry
func (b *Builder) Color(species string) string {
	if c, ok := b.colors[species]; ok {
		return c
	}
	return palette[7]
}

// groupBySpecies splits records by species, in dataset species order and
// then in first-appearance order for species the builder does not know.
func (b *Builder) groupBySpecies(records []penguin.Record) ([]string, map[string][]penguin.Record) {
	groups := make(map[string][]penguin.Record)
	var extra []string
	for _, r := range records {
		if _, known := b.colors[r.Species]; !known {
			if _, seen := groups[r.Species]; !seen {
				extra = append(extra, r.Species)
			}
		}
		groups[r.Species] = append(groups[r.Species], r)
	}

	var order []string
	for _, s := range b.order {
		if len(groups[s]) > 0 {
			order = append(order, s)
		}
	}
	return append(order, extra...), groups
}

func emptyAnnotation() []Annotation {
	return []Annotation{{
		Text: "No records match the current filters",
		XRef: "paper",
		YRef: "paper",
		X:    0.5,
		Y:    0.5,
	}}
}

func boolPtr(b bool) *bool {
	return &b
}
