package penguin

import "math"

// Column names of the penguins_size file
const (
	ColumnSpecies       = "species"
	ColumnIsland        = "island"
	ColumnCulmenLength  = "culmen_length_mm"
	ColumnCulmenDepth   = "culmen_depth_mm"
	ColumnFlipperLength = "flipper_length_mm"
	ColumnBodyMass      = "body_mass_g"
	ColumnSex           = "sex"
)

// TableColumns is the display and export order of the data table
var TableColumns = []string{
	ColumnSpecies,
	ColumnIsland,
	ColumnCulmenLength,
	ColumnCulmenDepth,
	ColumnFlipperLength,
	ColumnBodyMass,
	ColumnSex,
}

// Record is one penguin observation. Optional measurements are nil when the
// source cell was missing; BodyMass is always set after cleaning.
type Record struct {
	Species       string   `json:"species"`
	Island        string   `json:"island"`
	CulmenLength  *float64 `json:"culmen_length_mm"`
	CulmenDepth   *float64 `json:"culmen_depth_mm"`
	FlipperLength *float64 `json:"flipper_length_mm"`
	BodyMass      float64  `json:"body_mass_g"`
	Sex           string   `json:"sex"`
}

// Measurement is one numeric column and how to read it from a Record
type Measurement struct {
	Column string
	Value  func(Record) *float64
}

// Measurements are the numeric columns of the file, in file order
var Measurements = []Measurement{
	{ColumnCulmenLength, func(r Record) *float64 { return r.CulmenLength }},
	{ColumnCulmenDepth, func(r Record) *float64 { return r.CulmenDepth }},
	{ColumnFlipperLength, func(r Record) *float64 { return r.FlipperLength }},
	{ColumnBodyMass, func(r Record) *float64 { v := r.BodyMass; return &v }},
}

// Measure returns a pointer to v, for building records in code
func Measure(v float64) *float64 {
	return &v
}

// Dataset is the ordered, read-only collection of records for a session.
// Distinct values and bounds are computed once at construction.
type Dataset struct {
	records []Record
	species []string
	islands []string
	massMin float64
	massMax float64
}

// NewDataset copies records into a new Dataset
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{
		records: append([]Record(nil), records...),
		massMin: math.NaN(),
		massMax: math.NaN(),
	}

	seenSpecies := make(map[string]bool)
	seenIslands := make(map[string]bool)
	for i, r := range ds.records {
		if r.Species != "" && !seenSpecies[r.Species] {
			seenSpecies[r.Species] = true
			ds.species = append(ds.species, r.Species)
		}
		if r.Island != "" && !seenIslands[r.Island] {
			seenIslands[r.Island] = true
			ds.islands = append(ds.islands, r.Island)
		}
		if i == 0 || r.BodyMass < ds.massMin {
			ds.massMin = r.BodyMass
		}
		if i == 0 || r.BodyMass > ds.massMax {
			ds.massMax = r.BodyMass
		}
	}
	return ds
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of the records in file order
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// At returns the i-th record
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Species returns the distinct species in first-appearance order. Records
// with a blank species stay in the dataset but are never offered, since a
// selection cannot name them.
func (d *Dataset) Species() []string {
	return append([]string(nil), d.species...)
}

// Islands returns the distinct islands in first-appearance order
func (d *Dataset) Islands() []string {
	return append([]string(nil), d.islands...)
}

// MassBounds returns the observed body-mass minimum and maximum. Both are NaN
// for an empty dataset.
func (d *Dataset) MassBounds() (min, max float64) {
	return d.massMin, d.massMax
}

// Selection is the transient widget state. An empty Islands list means no
// island filter.
type Selection struct {
	Species string   `json:"species"`
	Islands []string `json:"islands"`
	MassMin float64  `json:"mass_min"`
	MassMax float64  `json:"mass_max"`
}

// FilteredView is the subset of a Dataset matching a Selection
type FilteredView struct {
	Selection Selection `json:"selection"`
	Records   []Record  `json:"records"`
	Count     int       `json:"count"`
	Summary   string    `json:"summary"`
}

// Dataset wraps the view's records so a selection can be applied again
func (v FilteredView) Dataset() *Dataset {
	return NewDataset(v.Records)
}
