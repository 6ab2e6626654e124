package dosing

// InventoryItem is the slice of a stocked product the cost lookup needs.
type InventoryItem struct {
	Name         string
	ChemicalType ChemicalType
	CostPerOz    float64
}

// DefaultCosts are industry-average costs per ounce.
var DefaultCosts = map[ChemicalType]float64{
	Acid:       0.05,
	Base:       0.09,
	Calcium:    0.07,
	Alkalinity: 0.04,
	Chlorine:   0.02,
	Stabilizer: 0.12,
}

// CostLookup resolves cost per ounce by chemical type. It is immutable once built.
type CostLookup struct {
	byType map[ChemicalType]float64
}

// NewCostLookup indexes inventory by type. The first item of each type wins.
func NewCostLookup(items []InventoryItem) CostLookup {
	byType := make(map[ChemicalType]float64, len(items))
	for _, item := range items {
		if _, seen := byType[item.ChemicalType]; seen {
			continue
		}
		byType[item.ChemicalType] = item.CostPerOz
	}
	return CostLookup{byType: byType}
}

// DefaultCostLookup resolves every type from DefaultCosts.
func DefaultCostLookup() CostLookup {
	return CostLookup{}
}

// CostPerOz returns the inventory cost, then the default, then 0.
func (c CostLookup) CostPerOz(t ChemicalType) float64 {
	if cost, ok := c.byType[t]; ok {
		return cost
	}
	return DefaultCosts[t]
}
