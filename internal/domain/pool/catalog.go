package pool

import "github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"

// DefaultCatalog is the starter inventory for a new truck.
func DefaultCatalog() []InventoryItem {
	return []InventoryItem{
		{Name: "Muriatic Acid", ChemicalType: dosing.Acid, CostPerOz: 0.05, CurrentStockOz: 256, UnitLabel: "oz", Concentration: 31.45},
		{Name: "Soda Ash", ChemicalType: dosing.Base, CostPerOz: 0.09, CurrentStockOz: 160, UnitLabel: "oz"},
		{Name: "Calcium Chloride", ChemicalType: dosing.Calcium, CostPerOz: 0.07, CurrentStockOz: 400, UnitLabel: "oz", Concentration: 77},
		{Name: "Sodium Bicarbonate (Alkalinity Up)", ChemicalType: dosing.Alkalinity, CostPerOz: 0.04, CurrentStockOz: 320, UnitLabel: "oz"},
		{Name: "Trichlor Tabs", ChemicalType: dosing.Chlorine, CostPerOz: 0.18, CurrentStockOz: 400, UnitLabel: "oz", Concentration: 90},
		{Name: "Liquid Chlorine 12.5%", ChemicalType: dosing.Chlorine, CostPerOz: 0.02, CurrentStockOz: 512, UnitLabel: "oz", Concentration: 12.5},
		{Name: "Cyanuric Acid", ChemicalType: dosing.Stabilizer, CostPerOz: 0.12, CurrentStockOz: 64, UnitLabel: "oz"},
	}
}

// costLookup adapts stocked products to the dosing cost table.
func costLookup(items []InventoryItem) dosing.CostLookup {
	converted := make([]dosing.InventoryItem, 0, len(items))
	for _, item := range items {
		converted = append(converted, dosing.InventoryItem{
			Name:         item.Name,
			ChemicalType: item.ChemicalType,
			CostPerOz:    item.CostPerOz,
		})
	}
	return dosing.NewCostLookup(converted)
}
