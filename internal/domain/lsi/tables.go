package lsi

// Point is one (key, value) row of a reference table.
type Point struct {
	Key   float64
	Value float64
}

// Reference tables, ascending by key. Treat as read-only.
var (
	// TemperatureTable maps water temperature in °F to the temperature factor.
	TemperatureTable = []Point{
		{32, 0.0}, {37, 0.1}, {46, 0.2}, {53, 0.3}, {60, 0.4},
		{66, 0.5}, {76, 0.6}, {84, 0.7}, {94, 0.8}, {105, 0.9},
	}

	// CalciumTable maps calcium hardness (ppm as CaCO3) to the calcium factor.
	// Values approximate log10(ppm) - 0.4.
	CalciumTable = []Point{
		{5, 0.3}, {25, 1.0}, {50, 1.3}, {75, 1.5}, {100, 1.6},
		{150, 1.8}, {200, 1.9}, {250, 2.0}, {300, 2.1}, {400, 2.2},
		{500, 2.3}, {600, 2.35}, {800, 2.5}, {1000, 2.6},
	}

	// AlkalinityTable maps total alkalinity (ppm as CaCO3) to the alkalinity factor.
	AlkalinityTable = []Point{
		{5, 0.7}, {25, 1.4}, {50, 1.7}, {75, 1.9}, {100, 2.0},
		{125, 2.1}, {150, 2.2}, {200, 2.3}, {250, 2.4}, {300, 2.5},
		{400, 2.6}, {500, 2.7}, {600, 2.8}, {800, 2.9}, {1000, 3.0},
	}

	// TDSTable maps total dissolved solids (ppm) to the constant subtracted from the index.
	TDSTable = []Point{
		{0, 12.27}, {400, 12.23}, {800, 12.15}, {1000, 12.10}, {1200, 12.05},
		{1500, 12.00}, {2000, 11.92}, {3000, 11.82}, {4000, 11.74}, {5000, 11.68},
	}
)
