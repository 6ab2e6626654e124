package pool

import (
	"fmt"
	"math"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"
	apperrors "github.com/AlexHuggler/LCI-tracker/pkg/errors"
)

type bounds struct {
	name     string
	min, max float64
}

// Input ranges accepted from technicians.
var (
	phBounds         = bounds{name: "ph", min: 6.0, max: 9.0}
	tempBounds       = bounds{name: "waterTempF", min: 32, max: 120}
	calciumBounds    = bounds{name: "calciumHardness", min: 0, max: 1000}
	alkalinityBounds = bounds{name: "totalAlkalinity", min: 0, max: 500}
	tdsBounds        = bounds{name: "tds", min: 0, max: 5000}
	volumeBounds     = bounds{name: "poolVolumeGallons", min: 5000, max: 50000}
)

func (b bounds) check(v float64) error {
	if math.IsNaN(v) || v < b.min || v > b.max {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("%s must be between %g and %g", b.name, b.min, b.max), nil)
	}
	return nil
}

func validateReadings(ph, tempF, ch, ta, tds float64) error {
	for _, c := range []struct {
		b bounds
		v float64
	}{
		{phBounds, ph},
		{tempBounds, tempF},
		{calciumBounds, ch},
		{alkalinityBounds, ta},
		{tdsBounds, tds},
	} {
		if err := c.b.check(c.v); err != nil {
			return err
		}
	}
	return nil
}

func validateDay(day int, allowZero bool) error {
	if allowZero && day == 0 {
		return nil
	}
	if day < 1 || day > 7 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "day of week must be between 1 (Sunday) and 7 (Saturday)", nil)
	}
	return nil
}

func validateInventoryItem(item InventoryItem) error {
	if item.Name == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	if !item.ChemicalType.Valid() || item.ChemicalType == dosing.None || item.ChemicalType == dosing.Dilution {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unsupported chemical type %q", item.ChemicalType), nil)
	}
	if item.CostPerOz < 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "costPerOz cannot be negative", nil)
	}
	if item.CurrentStockOz < 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "currentStockOz cannot be negative", nil)
	}
	return nil
}
