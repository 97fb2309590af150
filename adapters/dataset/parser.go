package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal/errors"

	"github.com/montanaflynn/stats"
)

// RequiredColumns must be present in the header row
var RequiredColumns = []string{
	penguin.ColumnSpecies,
	penguin.ColumnIsland,
	penguin.ColumnFlipperLength,
	penguin.ColumnCulmenLength,
	penguin.ColumnBodyMass,
}

// missingTokens are the cell values read as "no value"
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
}

// IsMissing reports whether a cell holds no value
func IsMissing(cell string) bool {
	return missingTokens[strings.TrimSpace(cell)]
}

// CleaningReport describes what Parse had to repair
type CleaningReport struct {
	Rows            int
	MissingBodyMass int
	BodyMassMedian  float64
}

// Parse types a RawTable into a Dataset and fills every missing body mass
// with the median of the observed ones. Other columns are left as read.
func Parse(raw *RawTable) (*penguin.Dataset, CleaningReport, error) {
	var report CleaningReport

	for _, col := range RequiredColumns {
		if !raw.HasColumn(col) {
			return nil, report, errors.DataUnavailable(fmt.Sprintf("required column %q is missing", col), nil)
		}
	}

	records := make([]penguin.Record, 0, len(raw.Rows))
	missingMass := make([]int, 0)
	observed := make([]float64, 0, len(raw.Rows))

	for i, row := range raw.Rows {
		line := i + 2 // header is line 1

		culmenLength, err := parseMeasure(row, penguin.ColumnCulmenLength, line)
		if err != nil {
			return nil, report, err
		}
		culmenDepth, err := parseMeasure(row, penguin.ColumnCulmenDepth, line)
		if err != nil {
			return nil, report, err
		}
		flipperLength, err := parseMeasure(row, penguin.ColumnFlipperLength, line)
		if err != nil {
			return nil, report, err
		}
		mass, err := parseMeasure(row, penguin.ColumnBodyMass, line)
		if err != nil {
			return nil, report, err
		}

		rec := penguin.Record{
			Species:       optionalText(row, penguin.ColumnSpecies),
			Island:        optionalText(row, penguin.ColumnIsland),
			CulmenLength:  culmenLength,
			CulmenDepth:   culmenDepth,
			FlipperLength: flipperLength,
			Sex:           optionalText(row, penguin.ColumnSex),
		}
		if mass == nil {
			missingMass = append(missingMass, len(records))
		} else {
			rec.BodyMass = *mass
			observed = append(observed, *mass)
		}
		records = append(records, rec)
	}

	report.Rows = len(records)
	report.MissingBodyMass = len(missingMass)

	if len(observed) == 0 {
		return nil, report, errors.DataUnavailable("column body_mass_g has no values", nil)
	}

	median, err := stats.Median(observed)
	if err != nil {
		return nil, report, errors.DataUnavailable("failed to compute body mass median", err)
	}
	report.BodyMassMedian = median

	for _, idx := range missingMass {
		records[idx].BodyMass = median
	}

	return penguin.NewDataset(records), report, nil
}

func optionalText(row RawRow, column string) string {
	cell := row[column]
	if IsMissing(cell) {
		return ""
	}
	return cell
}

// parseMeasure returns nil for a missing or absent optional cell
func parseMeasure(row RawRow, column string, line int) (*float64, error) {
	cell, ok := row[column]
	if !ok || IsMissing(cell) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err == nil && (math.IsInf(v, 0) || math.IsNaN(v)) {
		err = fmt.Errorf("value is not finite")
	}
	if err != nil {
		return nil, errors.DataUnavailable(fmt.Sprintf("line %d: column %s has non-numeric value %q", line, column, cell), err)
	}
	return &v, nil
}
