package dosing

import "strings"

// ChemicalType tags a product for cost lookup and dosing branches.
type ChemicalType string

const (
	Acid       ChemicalType = "acid"
	Base       ChemicalType = "base"
	Calcium    ChemicalType = "calcium"
	Alkalinity ChemicalType = "alkalinity"
	Chlorine   ChemicalType = "chlorine"
	Stabilizer ChemicalType = "stabilizer"
	Dilution   ChemicalType = "dilution"
	None       ChemicalType = "none"
)

// ChemicalTypes lists every known type in display order.
var ChemicalTypes = []ChemicalType{Acid, Base, Calcium, Alkalinity, Chlorine, Stabilizer, Dilution, None}

// Valid reports whether t is one of the known types.
func (t ChemicalType) Valid() bool {
	for _, known := range ChemicalTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseChemicalType normalizes user input into a ChemicalType.
func ParseChemicalType(raw string) (ChemicalType, bool) {
	t := ChemicalType(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.Valid()
}
