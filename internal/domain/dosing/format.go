package dosing

import (
	"fmt"
	"math"
)

const (
	ozPerPound  = 16
	ozPerGallon = 128

	// EmptyQuantity is shown where there is nothing to measure.
	EmptyQuantity = "—"
)

// FormatQuantity renders ounces the way a tech measures them on the truck.
func FormatQuantity(oz float64) string {
	switch {
	case oz <= 0 || math.IsNaN(oz):
		return EmptyQuantity
	case oz < ozPerPound:
		return fmt.Sprintf("%d oz", int(oz))
	case oz < ozPerGallon:
		whole := int(oz)
		lbs := whole / ozPerPound
		remainder := whole % ozPerPound
		unit := "lb"
		if lbs > 1 {
			unit = "lbs"
		}
		if remainder == 0 {
			return fmt.Sprintf("%d %s", lbs, unit)
		}
		return fmt.Sprintf("%d %s %d oz", lbs, unit, remainder)
	default:
		return fmt.Sprintf("%.1f gal", oz/ozPerGallon)
	}
}

func ceilWhole(oz float64) float64 {
	return math.Ceil(oz)
}
