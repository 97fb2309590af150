package ui

import (
	"strconv"
	"strings"

	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal/errors"

	"github.com/gin-gonic/gin"
)

// Query parameters of every data route
const (
	paramSpecies = "species"
	paramIsland  = "island"
	paramMassMin = "mass_min"
	paramMassMax = "mass_max"
)

// parseSelection reads the widget state from the query string. Absent
// parameters take their value from defaults.
func parseSelection(c *gin.Context, defaults penguin.Selection) (penguin.Selection, error) {
	species := c.Query(paramSpecies)
	if strings.TrimSpace(species) == "" {
		species = defaults.Species
	}

	massMin, err := parseBound(c, paramMassMin, defaults.MassMin)
	if err != nil {
		return penguin.Selection{}, err
	}
	massMax, err := parseBound(c, paramMassMax, defaults.MassMax)
	if err != nil {
		return penguin.Selection{}, err
	}

	sel := penguin.NewSelection(species, c.QueryArray(paramIsland), massMin, massMax)
	if err := sel.Validate(); err != nil {
		return penguin.Selection{}, err
	}
	return sel, nil
}

func parseBound(c *gin.Context, name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidInput(name + " must be a number")
	}
	return v, nil
}
