package lsi

// Interpolate returns the linearly interpolated value for the given key.
// Keys outside the table clamp to the nearest end; an empty table yields 0.
func Interpolate(value float64, table []Point) float64 {
	if len(table) == 0 {
		return 0
	}
	first := table[0]
	if value <= first.Key {
		return first.Value
	}
	last := table[len(table)-1]
	if value >= last.Key {
		return last.Value
	}

	for i := 0; i < len(table)-1; i++ {
		low, high := table[i], table[i+1]
		if value < low.Key || value > high.Key {
			continue
		}
		span := high.Key - low.Key
		if span == 0 {
			return low.Value
		}
		fraction := (value - low.Key) / span
		return low.Value + fraction*(high.Value-low.Value)
	}
	return last.Value
}

// TemperatureFactor looks up the temperature factor for a reading in °F.
func TemperatureFactor(waterTempF float64) float64 {
	return Interpolate(waterTempF, TemperatureTable)
}

// CalciumFactor looks up the calcium factor for a hardness in ppm.
func CalciumFactor(calciumHardness float64) float64 {
	return Interpolate(calciumHardness, CalciumTable)
}

// AlkalinityFactor looks up the alkalinity factor for a total alkalinity in ppm.
func AlkalinityFactor(totalAlkalinity float64) float64 {
	return Interpolate(totalAlkalinity, AlkalinityTable)
}

// TDSConstant looks up the dissolved solids constant for a TDS in ppm.
func TDSConstant(tds float64) float64 {
	return Interpolate(tds, TDSTable)
}
