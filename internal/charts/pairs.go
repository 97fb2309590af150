package charts

import (
	"math"

	"penguinexplorer/domain/penguin"

	"gonum.org/v1/gonum/stat"
)

// PairMeasurements are the numeric columns of the file, in file order
var PairMeasurements = penguin.Measurements

// PairGrid draws every pair of measurements against each other, coloured by
// species, with the per-variable distribution on the diagonal.
func (b *Builder) PairGrid(view penguin.FilteredView) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:     Title{Text: "Pair Plot of Measurements"},
			Legend:    &Legend{Title: Title{Text: penguin.ColumnSpecies}},
			Height:    800,
			DragMode:  "select",
			HoverMode: "closest",
		},
	}
	if len(view.Records) == 0 {
		fig.Layout.Annotations = emptyAnnotation()
		return fig
	}

	order, groups := b.groupBySpecies(view.Records)
	for _, species := range order {
		records := groups[species]
		dims := make([]Dimension, len(PairMeasurements))
		for j, m := range PairMeasurements {
			values := make([]*float64, len(records))
			for i, r := range records {
				values[i] = m.Value(r)
			}
			dims[j] = Dimension{Label: m.Column, Values: values}
		}
		fig.Data = append(fig.Data, Trace{
			Type:          "splom",
			Name:          species,
			LegendGroup:   species,
			Dimensions:    dims,
			Diagonal:      &Diagonal{Visible: true},
			ShowUpperHalf: boolPtr(true),
			Marker: Marker{
				Color:   b.Color(species),
				Size:    5,
				Opacity: 0.7,
				Line:    &MarkerLine{Color: "#ffffff", Width: 0.5},
			},
		})
	}
	return fig
}

// Correlation is Pearson's r between two measurements over the rows where
// both are present. Valid is false when r is undefined.
type Correlation struct {
	X     string  `json:"x"`
	Y     string  `json:"y"`
	R     float64 `json:"r"`
	N     int     `json:"n"`
	Valid bool    `json:"valid"`
}

// Correlations returns r for every unordered pair of PairMeasurements
func Correlations(view penguin.FilteredView) []Correlation {
	var out []Correlation
	for i := 0; i < len(PairMeasurements); i++ {
		for j := i + 1; j < len(PairMeasurements); j++ {
			out = append(out, correlate(view.Records, PairMeasurements[i], PairMeasurements[j]))
		}
	}
	return out
}

func correlate(records []penguin.Record, a, b penguin.Measurement) Correlation {
	c := Correlation{X: a.Column, Y: b.Column}
	xs := make([]float64, 0, len(records))
	ys := make([]float64, 0, len(records))
	for _, r := range records {
		x, y := a.Value(r), b.Value(r)
		if x == nil || y == nil {
			continue
		}
		xs = append(xs, *x)
		ys = append(ys, *y)
	}
	c.N = len(xs)
	if c.N < 2 {
		return c
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return c
	}
	c.R = r
	c.Valid = true
	return c
}
