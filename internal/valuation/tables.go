package valuation

import "sort"

// PropertyType is the kind of dwelling being valued.
type PropertyType string

const (
	TypeFlat      PropertyType = "Flat"
	TypeHouse     PropertyType = "House"
	TypePenthouse PropertyType = "Penthouse"
	TypeDuplex    PropertyType = "Duplex"
	TypeStudio    PropertyType = "Studio"
)

// Condition is the state of repair of the property.
type Condition string

const (
	ConditionExcellent       Condition = "Excellent"
	ConditionGood            Condition = "Good"
	ConditionFair            Condition = "Fair"
	ConditionNeedsRenovation Condition = "NeedsRenovation"
)

// DefaultBasePricePerArea is used for any location missing from the table.
const DefaultBasePricePerArea = 3000.0

// NeutralMultiplier is used for unknown property types and conditions.
const NeutralMultiplier = 1.0

// Base price per square metre, in euros, for each market area we cover.
var basePricePerArea = map[string]float64{
	"Barcelona":     4200,
	"Badalona":      3200,
	"Mataró":        2800,
	"Sitges":        5500,
	"Maresme":       3500,
	"El Masnou":     3900,
	"Premià de Mar": 3300,
}

var typeMultipliers = map[PropertyType]float64{
	TypeFlat:      1.0,
	TypeHouse:     1.15,
	TypePenthouse: 1.3,
	TypeDuplex:    1.2,
	TypeStudio:    0.85,
}

var conditionMultipliers = map[Condition]float64{
	ConditionExcellent:       1.1,
	ConditionGood:            1.0,
	ConditionFair:            0.9,
	ConditionNeedsRenovation: 0.75,
}

// BasePricePerArea returns the price per m² for location, or
// DefaultBasePricePerArea when the location is not a known market area.
func BasePricePerArea(location string) float64 {
	if price, ok := basePricePerArea[location]; ok {
		return price
	}
	return DefaultBasePricePerArea
}

// TypeMultiplier returns the multiplier for t, or NeutralMultiplier when t is
// not one of the known property types.
func TypeMultiplier(t PropertyType) float64 {
	if m, ok := typeMultipliers[t]; ok {
		return m
	}
	return NeutralMultiplier
}

// ConditionMultiplier returns the multiplier for c, or NeutralMultiplier when
// c is not one of the known conditions.
func ConditionMultiplier(c Condition) float64 {
	if m, ok := conditionMultipliers[c]; ok {
		return m
	}
	return NeutralMultiplier
}

// AgeMultiplier maps the age of a building in years to a value band.
func AgeMultiplier(age int) float64 {
	switch {
	case age < 5:
		return 1.1
	case age < 15:
		return 1.0
	case age < 30:
		return 0.95
	default:
		return 0.85
	}
}

// Locations returns the known market areas in alphabetical order.
func Locations() []string {
	names := make([]string, 0, len(basePricePerArea))
	for name := range basePricePerArea {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
