package profiling

import (
	"penguinexplorer/domain/penguin"

	"github.com/montanaflynn/stats"
)

// Profile is the descriptive summary of one measurement column
type Profile struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
}

// Describe profiles every measurement over records. Statistics that are not
// defined for the sample size are left at zero. Quartiles use the nearest-rank
// method, so Q25 and Q75 are always observed values rather than
// interpolations between neighbours.
func Describe(records []penguin.Record) []Profile {
	out := make([]Profile, 0, len(penguin.Measurements))
	for _, m := range penguin.Measurements {
		values := make([]float64, 0, len(records))
		for _, r := range records {
			if v := m.Value(r); v != nil {
				values = append(values, *v)
			}
		}
		p := describe(values)
		p.Column = m.Column
		p.Missing = len(records) - len(values)
		out = append(out, p)
	}
	return out
}

func describe(data []float64) Profile {
	p := Profile{Count: len(data)}
	if len(data) == 0 {
		return p
	}

	// stats only errors on empty input, checked above
	p.Mean, _ = stats.Mean(data)
	p.Min, _ = stats.Min(data)
	p.Max, _ = stats.Max(data)
	p.Median, _ = stats.Median(data)
	p.Q25, _ = stats.PercentileNearestRank(data, 25)
	p.Q75, _ = stats.PercentileNearestRank(data, 75)

	if len(data) > 1 {
		p.StdDev, _ = stats.StandardDeviationSample(data)
	}
	p.Skewness = skewness(data, p.Mean, p.StdDev)
	p.Outliers = outliers(data, p.Q25, p.Q75)
	return p
}

// skewness is the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum * n / ((n - 1) * (n - 2))
}

// outliers counts values beyond 1.5 IQR of the quartiles
func outliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
