package charts

import (
	"penguinexplorer/domain/penguin"
)

// maxMarkerSize is the diameter in px of the heaviest penguin, as in plotly
// express scatter plots sized by a column.
const maxMarkerSize = 20.0

const scatterHover = "species=%{fullData.name}<br>" +
	"flipper_length_mm=%{x}<br>" +
	"culmen_length_mm=%{y}<br>" +
	"body_mass_g=%{marker.size}<br>" +
	"island=%{customdata[0]}<extra></extra>"

// Scatter plots flipper length against culmen length, one trace per species,
// markers sized by body mass with the island in the hover label.
func (b *Builder) Scatter(view penguin.FilteredView) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:     Title{Text: "Flipper Length vs. Culmen Length"},
			XAxis:     &Axis{Title: Title{Text: penguin.ColumnFlipperLength}},
			YAxis:     &Axis{Title: Title{Text: penguin.ColumnCulmenLength}},
			Legend:    &Legend{Title: Title{Text: penguin.ColumnSpecies}},
			HoverMode: "closest",
		},
	}
	if len(view.Records) == 0 {
		fig.Layout.Annotations = emptyAnnotation()
		return fig
	}

	sizeRef := sizeReference(view.Records)
	order, groups := b.groupBySpecies(view.Records)
	for _, species := range order {
		records := groups[species]
		trace := Trace{
			Type:          "scatter",
			Mode:          "markers",
			Name:          species,
			LegendGroup:   species,
			X:             make([]*float64, len(records)),
			Y:             make([]*float64, len(records)),
			CustomData:    make([][]string, len(records)),
			HoverTemplate: scatterHover,
		}
		sizes := make([]float64, len(records))
		for i, r := range records {
			trace.X[i] = r.FlipperLength
			trace.Y[i] = r.CulmenLength
			trace.CustomData[i] = []string{r.Island}
			sizes[i] = r.BodyMass
		}
		trace.Marker = Marker{
			Color:    b.Color(species),
			Size:     sizes,
			SizeMode: "area",
			SizeRef:  sizeRef,
			Opacity:  0.8,
			Line:     &MarkerLine{Color: "#ffffff", Width: 0.5},
		}
		fig.Data = append(fig.Data, trace)
	}
	return fig
}

// sizeReference maps the heaviest body mass to maxMarkerSize px
func sizeReference(records []penguin.Record) float64 {
	max := 0.0
	for _, r := range records {
		if r.BodyMass > max {
			max = r.BodyMass
		}
	}
	if max <= 0 {
		return 1
	}
	return 2 * max / (maxMarkerSize * maxMarkerSize)
}
