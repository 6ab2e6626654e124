package dosing

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
)

// Reference doses in ounces per 10,000 gallons.
const (
	referenceGallons = 10000.0

	muriaticAcidOzPerPointTwoPH = 26.0 // lowers pH by 0.2
	sodaAshOzPerPointTwoPH      = 6.0  // raises pH by 0.2
	bicarbOzPer10ppmTA          = 24.0 // raises TA by 10 ppm
	calciumChlorideOzPer10CH    = 20.0 // raises CH by 10 ppm

	// Acid lowers pH and TA together, so TA reduction runs at half the pH rate.
	acidAlkalinityRate = 0.5

	doseNoiseScale = 1e9

	sodaAshNudgeOz = 3.0
	acidNudgeOz    = 8.0

	targetPHLow  = 7.4
	targetPHHigh = 7.6
	targetTALow  = 80.0
	targetTAHigh = 120.0
	targetCHLow  = 200.0
	maxCH        = 400.0
)

const (
	sodaAshName         = "Soda Ash (Sodium Carbonate)"
	bicarbName          = "Sodium Bicarbonate (Baking Soda)"
	calciumChlorideName = "Calcium Chloride (Hardness Up)"
	muriaticAcidName    = "Muriatic Acid (31.45%)"
	dilutionName        = "Partial Drain & Refill"

	balancedInstruction = "Water is balanced. No chemical adjustment needed."
)

// Recommendation is one prioritized dosing step. Priority 1 goes first; 0 means no action.
type Recommendation struct {
	ChemicalName  string
	ChemicalType  ChemicalType
	QuantityOz    float64
	QuantityLabel string
	Instruction   string
	Priority      int
	CostPerOz     float64
}

// ID identifies the step by chemical type and priority.
func (r Recommendation) ID() string {
	return fmt.Sprintf("%s-%d", r.ChemicalType, r.Priority)
}

// EstimatedCost is QuantityOz times CostPerOz.
func (r Recommendation) EstimatedCost() float64 {
	return r.QuantityOz * r.CostPerOz
}

type recommendationJSON struct {
	ID            string       `json:"id"`
	ChemicalName  string       `json:"chemicalName"`
	ChemicalType  ChemicalType `json:"chemicalType"`
	QuantityOz    float64      `json:"quantityOz"`
	QuantityLabel string       `json:"quantityLabel"`
	Instruction   string       `json:"instruction"`
	Priority      int          `json:"priority"`
	CostPerOz     float64      `json:"costPerOz"`
	EstimatedCost float64      `json:"estimatedCost"`
}

// MarshalJSON adds the derived id and estimated cost.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(recommendationJSON{
		ID:            r.ID(),
		ChemicalName:  r.ChemicalName,
		ChemicalType:  r.ChemicalType,
		QuantityOz:    r.QuantityOz,
		QuantityLabel: r.QuantityLabel,
		Instruction:   r.Instruction,
		Priority:      r.Priority,
		CostPerOz:     r.CostPerOz,
		EstimatedCost: r.EstimatedCost(),
	})
}

// UnmarshalJSON drops the derived fields.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw recommendationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Recommendation{
		ChemicalName:  raw.ChemicalName,
		ChemicalType:  raw.ChemicalType,
		QuantityOz:    raw.QuantityOz,
		QuantityLabel: raw.QuantityLabel,
		Instruction:   raw.Instruction,
		Priority:      raw.Priority,
		CostPerOz:     raw.CostPerOz,
	}
	return nil
}

// Recommend turns an LSI result and the raw readings into ordered dosing steps
// scaled to the pool volume.
func Recommend(result lsi.Result, currentPH, currentTA, currentCH, poolVolumeGallons float64, costs CostLookup) []Recommendation {
	if result.Status() == lsi.Balanced {
		return []Recommendation{{
			ChemicalName:  "None",
			ChemicalType:  None,
			QuantityLabel: EmptyQuantity,
			Instruction:   balancedInstruction,
		}}
	}

	p := planner{volumeFactor: poolVolumeGallons / referenceGallons, costs: costs, priority: 1}
	deviation := result.LSIValue

	switch {
	case deviation < lsi.BalancedLow:
		if currentPH < targetPHLow {
			oz := p.scale((targetPHLow - currentPH) / 0.2 * sodaAshOzPerPointTwoPH)
			p.add(sodaAshName, Base, oz,
				fmt.Sprintf("Add %s of Soda Ash to raise pH from %.1f to 7.4", FormatQuantity(oz), currentPH))
		}
		if currentTA < targetTALow {
			oz := p.scale((targetTALow - currentTA) / 10 * bicarbOzPer10ppmTA)
			p.add(bicarbName, Alkalinity, oz,
				fmt.Sprintf("Add %s of Sodium Bicarbonate to raise alkalinity from %d to 80 ppm", FormatQuantity(oz), int(currentTA)))
		}
		if currentCH < targetCHLow {
			oz := p.scale((targetCHLow - currentCH) / 10 * calciumChlorideOzPer10CH)
			p.add(calciumChlorideName, Calcium, oz,
				fmt.Sprintf("Add %s of Calcium Chloride to raise hardness from %d to 200 ppm", FormatQuantity(oz), int(currentCH)))
		}
	case deviation > lsi.BalancedHigh:
		if currentPH > targetPHHigh {
			oz := p.scale((currentPH - targetPHHigh) / 0.2 * muriaticAcidOzPerPointTwoPH)
			p.add(muriaticAcidName, Acid, oz,
				fmt.Sprintf("Add %s of Muriatic Acid to lower pH from %.1f to 7.6", FormatQuantity(oz), currentPH))
		}
		// Deferred while pH is still high; the next reading picks it up.
		if currentTA > targetTAHigh && currentPH <= targetPHHigh {
			oz := p.scale((currentTA - targetTAHigh) / 10 * muriaticAcidOzPerPointTwoPH * acidAlkalinityRate)
			p.add(muriaticAcidName, Acid, oz,
				fmt.Sprintf("Add %s of Muriatic Acid to lower alkalinity from %d to 120 ppm, then aerate to restore pH", FormatQuantity(oz), int(currentTA)))
		}
		if currentCH > maxCH {
			p.recs = append(p.recs, Recommendation{
				ChemicalName:  dilutionName,
				ChemicalType:  Dilution,
				QuantityLabel: EmptyQuantity,
				Instruction: fmt.Sprintf("Calcium at %d ppm is too high for chemical correction. "+
					"Recommend partial drain and fresh water refill to dilute below 400 ppm.", int(currentCH)),
				Priority: p.priority,
			})
			p.priority++
		}
	}

	if len(p.recs) == 0 {
		if deviation < 0 {
			oz := p.scale(sodaAshNudgeOz)
			p.add(sodaAshName, Base, oz,
				fmt.Sprintf("Add %s of Soda Ash to nudge pH up slightly. Retest in 4 hours.", FormatQuantity(oz)))
		} else {
			oz := p.scale(acidNudgeOz)
			p.add(muriaticAcidName, Acid, oz,
				fmt.Sprintf("Add %s of Muriatic Acid to nudge pH down slightly. Retest in 4 hours.", FormatQuantity(oz)))
		}
	}

	sort.SliceStable(p.recs, func(i, j int) bool {
		return p.recs[i].Priority < p.recs[j].Priority
	})
	return p.recs
}

// TotalEstimatedCost sums the estimated cost of every step.
func TotalEstimatedCost(recs []Recommendation) float64 {
	var total float64
	for _, rec := range recs {
		total += rec.EstimatedCost()
	}
	return total
}

type planner struct {
	volumeFactor float64
	costs        CostLookup
	priority     int
	recs         []Recommendation
}

// scale converts a per-10k-gallon dose to the pool volume, rounded up to a whole ounce.
// Float noise below 1e-9 oz is dropped before the ceiling, and a negative volume doses nothing.
func (p *planner) scale(referenceOz float64) float64 {
	oz := math.Round(referenceOz*p.volumeFactor*doseNoiseScale) / doseNoiseScale
	return math.Max(0, ceilWhole(oz))
}

func (p *planner) add(name string, t ChemicalType, oz float64, instruction string) {
	p.recs = append(p.recs, Recommendation{
		ChemicalName:  name,
		ChemicalType:  t,
		QuantityOz:    oz,
		QuantityLabel: FormatQuantity(oz),
		Instruction:   instruction,
		Priority:      p.priority,
		CostPerOz:     p.costs.CostPerOz(t),
	})
	p.priority++
}
