package penguin

import (
	"fmt"
	"math"
	"strings"

	"penguinexplorer/internal/errors"
)

// AllIslandsLabel is shown in the summary when no island filter is set
const AllIslandsLabel = "All Islands"

// NewSelection builds a Selection, trimming and de-duplicating islands while
// keeping the order the user picked them in.
func NewSelection(species string, islands []string, massMin, massMax float64) Selection {
	sel := Selection{
		Species: strings.TrimSpace(species),
		MassMin: massMin,
		MassMax: massMax,
	}
	seen := make(map[string]bool, len(islands))
	for _, island := range islands {
		island = strings.TrimSpace(island)
		if island == "" || seen[island] {
			continue
		}
		seen[island] = true
		sel.Islands = append(sel.Islands, island)
	}
	return sel
}

// DefaultSelection is the state of the widgets before any interaction: the
// first species, no island filter and the full observed mass range.
func DefaultSelection(ds *Dataset) Selection {
	min, max := ds.MassBounds()
	species := ""
	if s := ds.Species(); len(s) > 0 {
		species = s[0]
	}
	return Selection{Species: species, MassMin: min, MassMax: max}
}

// Validate checks the selection is usable. An unknown species is valid and
// simply matches nothing.
func (s Selection) Validate() error {
	if s.Species == "" {
		return errors.InvalidInput("species is required")
	}
	if math.IsNaN(s.MassMin) || math.IsNaN(s.MassMax) || math.IsInf(s.MassMin, 0) || math.IsInf(s.MassMax, 0) {
		return errors.InvalidInput("body mass bounds must be finite numbers")
	}
	if s.MassMin > s.MassMax {
		return errors.InvalidInput(fmt.Sprintf("body mass minimum %g exceeds maximum %g", s.MassMin, s.MassMax))
	}
	return nil
}

// Summary is the heading shown above the data table
func (s Selection) Summary() string {
	islands := AllIslandsLabel
	if len(s.Islands) > 0 {
		islands = strings.Join(s.Islands, ", ")
	}
	return fmt.Sprintf("Filtered Data for %s on %s:", s.Species, islands)
}

// Matches reports whether r satisfies every predicate of the selection
func (s Selection) Matches(r Record) bool {
	return s.matchesSpecies(r) && s.matchesIsland(r, s.islandSet()) && s.matchesMass(r)
}

func (s Selection) islandSet() map[string]bool {
	if len(s.Islands) == 0 {
		return nil
	}
	set := make(map[string]bool, len(s.Islands))
	for _, island := range s.Islands {
		set[island] = true
	}
	return set
}

func (s Selection) matchesSpecies(r Record) bool {
	return r.Species == s.Species
}

// a nil set means no island filter
func (s Selection) matchesIsland(r Record, set map[string]bool) bool {
	return set == nil || set[r.Island]
}

func (s Selection) matchesMass(r Record) bool {
	return r.BodyMass >= s.MassMin && r.BodyMass <= s.MassMax
}

// Filter applies the species, island and body-mass predicates in that order
// and returns a fresh view. ds is never modified.
func Filter(ds *Dataset, sel Selection) FilteredView {
	records := make([]Record, 0, ds.Len())
	for _, r := range ds.records {
		if sel.matchesSpecies(r) {
			records = append(records, r)
		}
	}

	if set := sel.islandSet(); set != nil {
		kept := records[:0]
		for _, r := range records {
			if sel.matchesIsland(r, set) {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	kept := records[:0]
	for _, r := range records {
		if sel.matchesMass(r) {
			kept = append(kept, r)
		}
	}
	records = kept

	return FilteredView{
		Selection: sel,
		Records:   records,
		Count:     len(records),
		Summary:   sel.Summary(),
	}
}
