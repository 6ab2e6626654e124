package pool

import (
	"time"

	"github.com/google/uuid"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
)

// Defaults applied to a newly created pool.
const (
	DefaultWaterTempF        = 78.0
	DefaultPH                = 7.4
	DefaultCalciumHardness   = 250.0
	DefaultTotalAlkalinity   = 100.0
	DefaultMonthlyServiceFee = 150.0
	DefaultVolumeGallons     = 15000.0
	DefaultServiceDayOfWeek  = 2
)

// Pool is a serviced customer site together with its latest readings.
// ServiceDayOfWeek runs 1 (Sunday) through 7 (Saturday).
type Pool struct {
	ID                   uuid.UUID `json:"id"`
	CustomerName         string    `json:"customerName"`
	Address              string    `json:"address"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	WaterTempF           float64   `json:"waterTempF"`
	PH                   float64   `json:"ph"`
	CalciumHardness      float64   `json:"calciumHardness"`
	TotalAlkalinity      float64   `json:"totalAlkalinity"`
	TotalDissolvedSolids float64   `json:"totalDissolvedSolids"`
	MonthlyServiceFee    float64   `json:"monthlyServiceFee"`
	PoolVolumeGallons    float64   `json:"poolVolumeGallons"`
	Notes                string    `json:"notes"`
	ServiceDayOfWeek     int       `json:"serviceDayOfWeek"`
	RouteOrder           int       `json:"routeOrder"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Reading returns the pool's stored measurements.
func (p Pool) Reading() lsi.Reading {
	return lsi.Reading{
		PH:              p.PH,
		WaterTempF:      p.WaterTempF,
		CalciumHardness: p.CalciumHardness,
		TotalAlkalinity: p.TotalAlkalinity,
		TDS:             p.TotalDissolvedSolids,
	}
}

// ServiceEvent is one logged visit. TotalChemicalCost is frozen at log time.
type ServiceEvent struct {
	ID                uuid.UUID      `json:"id"`
	PoolID            uuid.UUID      `json:"poolId"`
	Timestamp         time.Time      `json:"timestamp"`
	WaterTempF        float64        `json:"waterTempF"`
	PH                float64        `json:"ph"`
	CalciumHardness   float64        `json:"calciumHardness"`
	TotalAlkalinity   float64        `json:"totalAlkalinity"`
	LSIValue          float64        `json:"lsiValue"`
	TotalChemicalCost float64        `json:"totalChemicalCost"`
	TechNotes         string         `json:"techNotes"`
	Doses             []ChemicalDose `json:"doses"`
}

// ChemicalDose is a product applied during a visit.
type ChemicalDose struct {
	ChemicalType dosing.ChemicalType `json:"chemicalType"`
	ChemicalName string              `json:"chemicalName"`
	QuantityOz   float64             `json:"quantityOz"`
	Cost         float64             `json:"cost"`
}

// InventoryItem is a product carried on the truck.
type InventoryItem struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	ChemicalType   dosing.ChemicalType `json:"chemicalType"`
	CostPerOz      float64             `json:"costPerOz"`
	CurrentStockOz float64             `json:"currentStockOz"`
	UnitLabel      string              `json:"unitLabel"`
	Concentration  float64             `json:"concentration"`
}

// CalculateRequest carries a calculator run. Nil TDS and volume take configured defaults.
type CalculateRequest struct {
	PH                float64  `json:"ph"`
	WaterTempF        float64  `json:"waterTempF"`
	CalciumHardness   float64  `json:"calciumHardness"`
	TotalAlkalinity   float64  `json:"totalAlkalinity"`
	TDS               *float64 `json:"tds,omitempty"`
	PoolVolumeGallons *float64 `json:"poolVolumeGallons,omitempty"`
}

// CalculationResponse is the index plus the dosing plan for it.
type CalculationResponse struct {
	LSI                lsi.Result              `json:"lsi"`
	Recommendations    []dosing.Recommendation `json:"recommendations"`
	TotalEstimatedCost float64                 `json:"totalEstimatedCost"`
	PoolVolumeGallons  float64                 `json:"poolVolumeGallons"`
}

// CreatePoolRequest registers a pool. Omitted readings take pool defaults.
type CreatePoolRequest struct {
	CustomerName      string   `json:"customerName"`
	Address           string   `json:"address"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	WaterTempF        *float64 `json:"waterTempF,omitempty"`
	PH                *float64 `json:"ph,omitempty"`
	CalciumHardness   *float64 `json:"calciumHardness,omitempty"`
	TotalAlkalinity   *float64 `json:"totalAlkalinity,omitempty"`
	TDS               *float64 `json:"totalDissolvedSolids,omitempty"`
	MonthlyServiceFee *float64 `json:"monthlyServiceFee,omitempty"`
	PoolVolumeGallons *float64 `json:"poolVolumeGallons,omitempty"`
	Notes             string   `json:"notes"`
	ServiceDayOfWeek  *int     `json:"serviceDayOfWeek,omitempty"`
	RouteOrder        int      `json:"routeOrder"`
}

// ListPoolsRequest filters the route. Zero DayOfWeek lists every pool.
type ListPoolsRequest struct {
	DayOfWeek int
}

// ReorderRouteRequest assigns RouteOrder by position in PoolIDs.
type ReorderRouteRequest struct {
	DayOfWeek int         `json:"dayOfWeek"`
	PoolIDs   []uuid.UUID `json:"poolIds"`
}

// UpdateReadingsRequest saves calculator readings back to the pool.
type UpdateReadingsRequest struct {
	PH              float64  `json:"ph"`
	WaterTempF      float64  `json:"waterTempF"`
	CalciumHardness float64  `json:"calciumHardness"`
	TotalAlkalinity float64  `json:"totalAlkalinity"`
	TDS             *float64 `json:"totalDissolvedSolids,omitempty"`
}

// LogServiceRequest is a quick-log entry. TDS and volume come from the pool.
type LogServiceRequest struct {
	PH              float64 `json:"ph"`
	WaterTempF      float64 `json:"waterTempF"`
	CalciumHardness float64 `json:"calciumHardness"`
	TotalAlkalinity float64 `json:"totalAlkalinity"`
	TechNotes       string  `json:"techNotes"`
}

// LogServiceResponse returns the stored event with the plan it was costed from.
type LogServiceResponse struct {
	Event           ServiceEvent            `json:"event"`
	LSI             lsi.Result              `json:"lsi"`
	Recommendations []dosing.Recommendation `json:"recommendations"`
}

// PoolProfit is a pool's profit over one billing period.
type PoolProfit struct {
	PoolID            uuid.UUID `json:"poolId"`
	CustomerName      string    `json:"customerName"`
	MonthlyServiceFee float64   `json:"monthlyServiceFee"`
	BillingPeriodDays int       `json:"billingPeriodDays"`
	EventCount        int       `json:"eventCount"`
	dosing.Profit
}

// ProfitReport covers every pool for one billing period.
type ProfitReport struct {
	GeneratedAt       time.Time    `json:"generatedAt"`
	BillingPeriodDays int          `json:"billingPeriodDays"`
	Pools             []PoolProfit `json:"pools"`
	TotalRevenue      float64      `json:"totalRevenue"`
	TotalChemCost     float64      `json:"totalChemCost"`
	TotalProfit       float64      `json:"totalProfit"`
	InTheRed          []uuid.UUID  `json:"inTheRed"`
}
