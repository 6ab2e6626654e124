package lsi

import "encoding/json"

const (
	// DefaultTDS is used when a reading carries no dissolved solids measurement.
	DefaultTDS = 1000.0

	// BalancedLow and BalancedHigh bound the balanced band, both inclusive.
	BalancedLow  = -0.3
	BalancedHigh = 0.3
)

// WaterCondition classifies water by its saturation index.
type WaterCondition string

const (
	Corrosive    WaterCondition = "corrosive"
	Balanced     WaterCondition = "balanced"
	ScaleForming WaterCondition = "scale_forming"
)

// StatusFor classifies a saturation index.
func StatusFor(lsiValue float64) WaterCondition {
	switch {
	case lsiValue < BalancedLow:
		return Corrosive
	case lsiValue > BalancedHigh:
		return ScaleForming
	default:
		return Balanced
	}
}

// Label is the short display name.
func (c WaterCondition) Label() string {
	switch c {
	case Corrosive:
		return "Corrosive"
	case ScaleForming:
		return "Scale-Forming"
	default:
		return "Balanced"
	}
}

// Description explains what the condition does to the pool.
func (c WaterCondition) Description() string {
	switch c {
	case Corrosive:
		return "Water is aggressive. It dissolves plaster, corrodes equipment and etches surfaces."
	case ScaleForming:
		return "Water is scale-forming. Expect calcium deposits, cloudy water and clogged heaters."
	default:
		return "Water is balanced with no significant scaling or corrosion tendency."
	}
}

// Reading bundles the measurements the index is computed from.
type Reading struct {
	PH              float64 `json:"ph"`
	WaterTempF      float64 `json:"waterTempF"`
	CalciumHardness float64 `json:"calciumHardness"`
	TotalAlkalinity float64 `json:"totalAlkalinity"`
	TDS             float64 `json:"tds"`
}

// Result holds the index together with the looked-up factors behind it.
type Result struct {
	LSIValue          float64
	TemperatureFactor float64
	CalciumFactor     float64
	AlkalinityFactor  float64
	TDSConstant       float64
	PH                float64
}

// Status derives the water condition from LSIValue.
func (r Result) Status() WaterCondition {
	return StatusFor(r.LSIValue)
}

type resultJSON struct {
	LSIValue          float64        `json:"lsiValue"`
	TemperatureFactor float64        `json:"temperatureFactor"`
	CalciumFactor     float64        `json:"calciumFactor"`
	AlkalinityFactor  float64        `json:"alkalinityFactor"`
	TDSConstant       float64        `json:"tdsConstant"`
	PH                float64        `json:"ph"`
	Status            WaterCondition `json:"status"`
	Label             string         `json:"label"`
	Description       string         `json:"description"`
}

// MarshalJSON includes the derived status so clients never recompute it.
func (r Result) MarshalJSON() ([]byte, error) {
	status := r.Status()
	return json.Marshal(resultJSON{
		LSIValue:          r.LSIValue,
		TemperatureFactor: r.TemperatureFactor,
		CalciumFactor:     r.CalciumFactor,
		AlkalinityFactor:  r.AlkalinityFactor,
		TDSConstant:       r.TDSConstant,
		PH:                r.PH,
		Status:            status,
		Label:             status.Label(),
		Description:       status.Description(),
	})
}

// UnmarshalJSON ignores the derived fields.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Result{
		LSIValue:          raw.LSIValue,
		TemperatureFactor: raw.TemperatureFactor,
		CalciumFactor:     raw.CalciumFactor,
		AlkalinityFactor:  raw.AlkalinityFactor,
		TDSConstant:       raw.TDSConstant,
		PH:                raw.PH,
	}
	return nil
}

// Calculate computes LSI = pH + TF + CF + AF - TDS constant.
func Calculate(pH, waterTempF, calciumHardness, totalAlkalinity, tds float64) Result {
	tf := TemperatureFactor(waterTempF)
	cf := CalciumFactor(calciumHardness)
	af := AlkalinityFactor(totalAlkalinity)
	tc := TDSConstant(tds)
	return Result{
		LSIValue:          pH + tf + cf + af - tc,
		TemperatureFactor: tf,
		CalciumFactor:     cf,
		AlkalinityFactor:  af,
		TDSConstant:       tc,
		PH:                pH,
	}
}

// CalculateReading is Calculate over a Reading.
func CalculateReading(r Reading) Result {
	return Calculate(r.PH, r.WaterTempF, r.CalciumHardness, r.TotalAlkalinity, r.TDS)
}
