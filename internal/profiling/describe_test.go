package profiling

import (
	"testing"

	"penguinexplorer/domain/penguin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(length *float64, mass float64) penguin.Record {
	return penguin.Record{Species: "Adelie", Island: "Torgersen", CulmenLength: length, BodyMass: mass}
}

func TestDescribeColumnsInFileOrder(t *testing.T) {
	profiles := Describe(nil)
	require.Len(t, profiles, 4)
	assert.Equal(t, penguin.ColumnCulmenLength, profiles[0].Column)
	assert.Equal(t, penguin.ColumnBodyMass, profiles[3].Column)
	for _, p := range profiles {
		assert.Zero(t, p.Count)
		assert.Zero(t, p.Mean)
	}
}

func TestDescribeSkipsMissing(t *testing.T) {
	m := penguin.Measure
	profiles := Describe([]penguin.Record{
		record(m(39.1), 3750),
		record(m(39.5), 3800),
		record(m(40.3), 3250),
		record(nil, 3700),
	})

	length := profiles[0]
	assert.Equal(t, 3, length.Count)
	assert.Equal(t, 1, length.Missing)
	assert.InDelta(t, 39.6333, length.Mean, 1e-4)
	assert.InDelta(t, 0.6110, length.StdDev, 1e-4)
	assert.Equal(t, 39.1, length.Min)
	assert.Equal(t, 39.5, length.Median)
	assert.Equal(t, 40.3, length.Max)
	assert.Equal(t, 39.1, length.Q25)
	assert.Equal(t, 40.3, length.Q75)

	depth := profiles[1]
	assert.Zero(t, depth.Count)
	assert.Equal(t, 4, depth.Missing)

	mass := profiles[3]
	assert.Equal(t, 4, mass.Count)
	assert.Zero(t, mass.Missing)
}

func TestDescribeSingleValue(t *testing.T) {
	p := describe([]float64{42})
	assert.Equal(t, 42.0, p.Mean)
	assert.Equal(t, 42.0, p.Q25)
	assert.Equal(t, 42.0, p.Q75)
	assert.Zero(t, p.StdDev)
	assert.Zero(t, p.Skewness)
	assert.Zero(t, p.Outliers)
}

func TestSkewness(t *testing.T) {
	symmetric := describe([]float64{1, 2, 3})
	assert.InDelta(t, 0, symmetric.Skewness, 1e-12)

	right := describe([]float64{1, 2, 10})
	assert.Greater(t, right.Skewness, 0.0)

	flat := describe([]float64{5, 5, 5, 5})
	assert.Zero(t, flat.Skewness)
}

func TestQuartilesAreNearestRank(t *testing.T) {
	p := describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 1.0, p.Q25)
	assert.Equal(t, 3.0, p.Q75)

	p = describe([]float64{10, 20, 30, 40, 50, 60, 70, 80})
	assert.Equal(t, 20.0, p.Q25)
	assert.Equal(t, 60.0, p.Q75)
}

func TestOutliers(t *testing.T) {
	p := describe([]float64{3000, 3100, 3200, 3300, 9000})
	assert.Equal(t, 3100.0, p.Q25)
	assert.Equal(t, 3300.0, p.Q75)
	assert.Equal(t, 1, p.Outliers)
}
