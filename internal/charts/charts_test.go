package charts

import (
	"encoding/json"
	"testing"

	"penguinexplorer/domain/penguin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(records ...penguin.Record) penguin.FilteredView {
	return penguin.FilteredView{Records: records, Count: len(records)}
}

func bird(species, island string, flipper, culmen *float64, mass float64) penguin.Record {
	return penguin.Record{
		Species:       species,
		Island:        island,
		FlipperLength: flipper,
		CulmenLength:  culmen,
		CulmenDepth:   penguin.Measure(15),
		BodyMass:      mass,
	}
}

var m = penguin.Measure

func TestScatterEncodings(t *testing.T) {
	b := NewBuilder([]string{"Adelie", "Chinstrap", "Gentoo"})
	v := view(
		bird("Gentoo", "Biscoe", m(211), m(46.1), 4500),
		bird("Gentoo", "Biscoe", m(230), m(50.0), 6000),
		bird("Gentoo", "Biscoe", nil, m(44.5), 5000),
	)

	fig := b.Scatter(v)

	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, "scatter", tr.Type)
	assert.Equal(t, "markers", tr.Mode)
	assert.Equal(t, "Gentoo", tr.Name)
	assert.Equal(t, "#1ac938", tr.Marker.Color)
	assert.Equal(t, []float64{4500, 6000, 5000}, tr.Marker.Size)
	assert.Equal(t, "area", tr.Marker.SizeMode)
	assert.InDelta(t, 2*6000.0/400, tr.Marker.SizeRef, 1e-9)
	assert.Equal(t, [][]string{{"Biscoe"}, {"Biscoe"}, {"Biscoe"}}, tr.CustomData)
	assert.Equal(t, 211.0, *tr.X[0])
	assert.Nil(t, tr.X[2], "missing flipper length stays missing")
	assert.Equal(t, 46.1, *tr.Y[0])
	assert.Equal(t, "flipper_length_mm", fig.Layout.XAxis.Title.Text)
	assert.Equal(t, "culmen_length_mm", fig.Layout.YAxis.Title.Text)
	assert.Contains(t, tr.HoverTemplate, "island=%{customdata[0]}")
}

func TestScatterTraceOrderFollowsDataset(t *testing.T) {
	b := NewBuilder([]string{"Adelie", "Chinstrap", "Gentoo"})
	v := view(
		bird("Gentoo", "Biscoe", m(211), m(46.1), 4500),
		bird("Adelie", "Dream", m(181), m(39.1), 3750),
		bird("Emperor", "Ross", m(250), m(60), 9000),
	)

	fig := b.Scatter(v)

	require.Len(t, fig.Data, 3)
	assert.Equal(t, "Adelie", fig.Data[0].Name)
	assert.Equal(t, "Gentoo", fig.Data[1].Name)
	assert.Equal(t, "Emperor", fig.Data[2].Name)
	assert.Equal(t, "#a3a3a3", fig.Data[2].Marker.Color)
}

func TestEmptyViewFigures(t *testing.T) {
	b := NewBuilder([]string{"Adelie"})

	for _, fig := range []Figure{b.Scatter(view()), b.PairGrid(view())} {
		assert.NotNil(t, fig.Data)
		assert.Empty(t, fig.Data)
		require.Len(t, fig.Layout.Annotations, 1)

		raw, err := json.Marshal(fig)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"data":[]`)
	}
}

func TestPairGrid(t *testing.T) {
	b := NewBuilder([]string{"Adelie", "Chinstrap", "Gentoo"})
	v := view(
		bird("Chinstrap", "Dream", m(192), m(46.5), 3500),
		bird("Chinstrap", "Dream", nil, m(50.0), 3900),
	)

	fig := b.PairGrid(v)

	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, "splom", tr.Type)
	assert.Equal(t, "#ff7c00", tr.Marker.Color)
	require.Len(t, tr.Dimensions, 4)

	labels := []string{}
	for _, d := range tr.Dimensions {
		labels = append(labels, d.Label)
		assert.Len(t, d.Values, 2)
	}
	assert.Equal(t, []string{"culmen_length_mm", "culmen_depth_mm", "flipper_length_mm", "body_mass_g"}, labels)
	assert.Nil(t, tr.Dimensions[2].Values[1])
	assert.Equal(t, 3900.0, *tr.Dimensions[3].Values[1])
	assert.True(t, tr.Diagonal.Visible)
}

func TestCorrelations(t *testing.T) {
	v := view(
		bird("Gentoo", "Biscoe", m(210), m(45), 4000),
		bird("Gentoo", "Biscoe", m(220), m(47), 5000),
		bird("Gentoo", "Biscoe", m(230), m(49), 6000),
		bird("Gentoo", "Biscoe", nil, m(10), 1),
	)

	corr := Correlations(v)
	require.Len(t, corr, 6)

	byPair := make(map[string]Correlation)
	for _, c := range corr {
		byPair[c.X+"|"+c.Y] = c
	}

	flipperMass := byPair["flipper_length_mm|body_mass_g"]
	assert.True(t, flipperMass.Valid)
	assert.Equal(t, 3, flipperMass.N)
	assert.InDelta(t, 1.0, flipperMass.R, 1e-9)

	// culmen depth is constant, so r is undefined
	depth := byPair["culmen_depth_mm|body_mass_g"]
	assert.False(t, depth.Valid)
	assert.Equal(t, 0.0, depth.R)

	raw, err := json.Marshal(corr)
	require.NoError(t, err, "undefined correlations must still encode")
	assert.NotContains(t, string(raw), "NaN")
}

func TestCorrelationsTooFewRows(t *testing.T) {
	corr := Correlations(view(bird("Adelie", "Dream", m(181), m(39.1), 3750)))
	for _, c := range corr {
		assert.False(t, c.Valid)
		assert.Equal(t, 1, c.N)
	}
}
